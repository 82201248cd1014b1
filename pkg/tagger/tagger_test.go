package tagger

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
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

func readArchivePart(t *testing.T, path, name string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		var sb strings.Builder
		buf := make([]byte, 4096)
		for {
			n, err := rc.Read(buf)
			sb.Write(buf[:n])
			if err != nil {
				break
			}
		}
		return sb.String()
	}
	t.Fatalf("part %s not found in %s", name, path)
	return ""
}

func TestForFile_SelectsByExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		filename string
		content  []byte
		tagger   interface{}
	}{
		{"notes.txt", []byte("plain text"), &TextTagger{}},
		{"script.py", []byte("print('hi')"), &TextTagger{}},
		{"report.pdf", []byte("%PDF-1.4"), &PDFTagger{}},
		{"report.docx", []byte("PK"), &OfficeTagger{}},
		{"legacy.doc", []byte{0xd0, 0xcf}, &OfficeTagger{}},
		{"readable-unknown", []byte("looks like text content here"), &TextTagger{}},
		{"binary-unknown", []byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe, 0xfd, 0xfc, 0x00, 0x01}, &OfficeTagger{}},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			path := filepath.Join(dir, tt.filename)
			require.NoError(t, os.WriteFile(path, tt.content, 0600))

			tagger, err := ForFile(path)
			require.NoError(t, err)
			assert.IsType(t, tt.tagger, tagger)
		})
	}
}

func TestForFile_MissingFile(t *testing.T) {
	_, err := ForFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestWriteSidecar_CreatesAndUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00}, 0600))

	require.NoError(t, writeSidecar(path, "Data Class", "pii"))

	data, err := os.ReadFile(path + ".metadata")
	require.NoError(t, err)
	assert.Equal(t, "Data Class: pii\n", string(data))

	require.NoError(t, writeSidecar(path, "Data Class", "safe"))

	data, err = os.ReadFile(path + ".metadata")
	require.NoError(t, err)
	assert.Equal(t, "Data Class: safe\n", string(data))
}

func TestWriteSidecar_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00}, 0600))
	require.NoError(t, os.WriteFile(path+".metadata", []byte("Owner: jane\n"), 0600))

	require.NoError(t, writeSidecar(path, "Data Class", "pii"))

	data, err := os.ReadFile(path + ".metadata")
	require.NoError(t, err)
	assert.Equal(t, "Owner: jane\nData Class: pii\n", string(data))
}

func TestTextTagger_Tag_SidecarLeavesContentUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0600))

	require.NoError(t, (&TextTagger{}).Tag(path, "Data Class", "pii"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "some notes", string(data))

	meta, err := os.ReadFile(path + ".metadata")
	require.NoError(t, err)
	assert.Equal(t, "Data Class: pii\n", string(meta))
}

func TestTextTagger_CommentAfterShebang(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.py")
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/env python\nprint('hi')\n"), 0600))

	require.NoError(t, (&TextTagger{}).tagWithComment(path, "Data Class", "pii"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "#!/usr/bin/env python", lines[0])
	assert.Equal(t, "# METADATA: Data Class=pii", lines[1])
	assert.Equal(t, "print('hi')", lines[2])
}

func TestTextTagger_CommentReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.js")
	require.NoError(t, os.WriteFile(path,
		[]byte("// METADATA: Data Class=safe\nconsole.log(1)\n"), 0600))

	require.NoError(t, (&TextTagger{}).tagWithComment(path, "Data Class", "pii"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// METADATA: Data Class=pii\nconsole.log(1)\n", string(data))
}

func TestTextTagger_MarkerIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0600))

	tagger := &TextTagger{}
	require.NoError(t, tagger.tagWithMarker(path, "Data Class", "pii"))
	require.NoError(t, tagger.tagWithMarker(path, "Data Class", "pii"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "some notes\n### METADATA: Data Class=pii ###\n", string(data))
}

func TestOfficeTagger_RewritesCoreProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	writeArchive(t, path, map[string]string{
		"word/document.xml": `<w:document/>`,
		"docProps/core.xml": `<?xml version="1.0"?>` +
			`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
			` xmlns:dc="http://purl.org/dc/elements/1.1/">` +
			`<dc:title>Report</dc:title>` +
			`<cp:keywords>old</cp:keywords>` +
			`</cp:coreProperties>`,
	})

	require.NoError(t, (&OfficeTagger{}).Tag(path, "Data Class", "pii"))

	core := readArchivePart(t, path, "docProps/core.xml")
	assert.Contains(t, core, "<cp:keywords>Data Class: pii</cp:keywords>")
	assert.Contains(t, core, "<dc:subject>Data Class: pii</dc:subject>")
	assert.Contains(t, core, "<cp:category>Data Class: pii</cp:category>")
	assert.Contains(t, core, "<dc:title>Report</dc:title>")
	assert.NotContains(t, core, "old")

	body := readArchivePart(t, path, "word/document.xml")
	assert.Equal(t, `<w:document/>`, body)
}

func TestOfficeTagger_AddsCorePropertiesWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	writeArchive(t, path, map[string]string{
		"word/document.xml": `<w:document/>`,
	})

	require.NoError(t, (&OfficeTagger{}).Tag(path, "Data Class", "pii"))

	core := readArchivePart(t, path, "docProps/core.xml")
	assert.Contains(t, core, "<cp:keywords>Data Class: pii</cp:keywords>")
}

func TestOfficeTagger_LegacyBinaryFallsBackToSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.doc")
	require.NoError(t, os.WriteFile(path, []byte{0xd0, 0xcf, 0x11, 0xe0}, 0600))

	require.NoError(t, (&OfficeTagger{}).Tag(path, "Data Class", "pii"))

	data, err := os.ReadFile(path + ".metadata")
	require.NoError(t, err)
	assert.Equal(t, "Data Class: pii\n", string(data))
}
