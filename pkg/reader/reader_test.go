package reader

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, path string, parts map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range parts {
		part, err := w.Create(name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestForFile_SelectsByExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		filename string
		reader   interface{}
	}{
		{"report.pdf", &PDFReader{}},
		{"report.docx", &OfficeReader{}},
		{"sheet.xlsx", &OfficeReader{}},
		{"deck.pptx", &OfficeReader{}},
		{"legacy.doc", &OfficeReader{}},
		{"notes.txt", &TextReader{}},
		{"script.py", &TextReader{}},
		{"no-extension", &TextReader{}},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			path := filepath.Join(dir, tt.filename)
			require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

			r, err := ForFile(path)
			require.NoError(t, err)
			assert.IsType(t, tt.reader, r)
		})
	}
}

func TestForFile_MissingFile(t *testing.T) {
	_, err := ForFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestTextReader_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld"), 0600))

	text, err := (&TextReader{}).Read(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", text)
}

func TestTextReader_ReplacesInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.txt")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe, '!'}, 0600))

	text, err := (&TextReader{}).Read(path)
	require.NoError(t, err)
	assert.Contains(t, text, "ok")
	assert.Contains(t, text, "!")
}

func TestOfficeReader_Docx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	writeArchive(t, path, map[string]string{
		"word/document.xml": `<?xml version="1.0"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body>` +
			`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
	})

	text, err := (&OfficeReader{}).Read(path)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond paragraph", text)
}

func TestOfficeReader_Xlsx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.xlsx")
	writeArchive(t, path, map[string]string{
		"xl/sharedStrings.xml": `<?xml version="1.0"?>` +
			`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
			`<si><t>Customer</t></si>` +
			`<si><t>jane@example.com</t></si>` +
			`</sst>`,
	})

	text, err := (&OfficeReader{}).Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Customer\njane@example.com", text)
}

func TestOfficeReader_Pptx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	writeArchive(t, path, map[string]string{
		"ppt/slides/slide1.xml": "<?xml version=\"1.0\"?>" +
			"<p:sld xmlns:p=\"http://schemas.openxmlformats.org/presentationml/2006/main\"" +
			" xmlns:a=\"http://schemas.openxmlformats.org/drawingml/2006/main\">" +
			"<p:cSld><a:p><a:r><a:t>Title slide</a:t></a:r></a:p></p:cSld></p:sld>",
		"ppt/slides/slide2.xml": "<?xml version=\"1.0\"?>" +
			"<p:sld xmlns:p=\"http://schemas.openxmlformats.org/presentationml/2006/main\"" +
			" xmlns:a=\"http://schemas.openxmlformats.org/drawingml/2006/main\">" +
			"<p:cSld><a:p><a:r><a:t>Second slide</a:t></a:r></a:p></p:cSld></p:sld>",
	})

	text, err := (&OfficeReader{}).Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Title slide\nSecond slide", text)
}

func TestOfficeReader_XlsxWithoutSharedStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writeArchive(t, path, map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?><workbook/>`,
	})

	text, err := (&OfficeReader{}).Read(path)
	require.NoError(t, err)
	assert.Empty(t, text)
}
