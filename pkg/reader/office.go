package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// OfficeReader extracts text from Office Open XML documents (.docx, .xlsx,
// .pptx). The OOXML container is a zip archive; the text lives in
// well-known XML parts. Legacy binary formats (.doc, .xls, .ppt) have no
// portable reader, they fall back to plain-text reading like the original
// non-Windows path.
type OfficeReader struct{}

func (r *OfficeReader) Read(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return readArchiveText(path, []string{"word/document.xml"}, "w:t", "w:p")
	case ".xlsx":
		return readArchiveText(path, []string{"xl/sharedStrings.xml"}, "t", "si")
	case ".pptx":
		return readSlides(path)
	default:
		return (&TextReader{}).Read(path)
	}
}

func readSlides(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open Office archive: %w", err)
	}
	defer archive.Close()

	var slides []string
	for _, file := range archive.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file.Name)
		}
	}
	sort.Strings(slides)

	var parts []string
	for _, name := range slides {
		text, err := extractPartText(&archive.Reader, name, "a:t", "a:p")
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}

func readArchiveText(path string, parts []string, textTag, breakTag string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open Office archive: %w", err)
	}
	defer archive.Close()

	var out []string
	for _, name := range parts {
		text, err := extractPartText(&archive.Reader, name, textTag, breakTag)
		if err != nil {
			return "", err
		}
		if text != "" {
			out = append(out, text)
		}
	}

	return strings.Join(out, "\n"), nil
}

// extractPartText collects the character data of every textTag element in
// the named archive part, inserting a newline when a breakTag element
// closes.
func extractPartText(archive *zip.Reader, name, textTag, breakTag string) (string, error) {
	part, err := archive.Open(name)
	if err != nil {
		// A valid archive may simply not contain the part (e.g. an
		// empty workbook has no shared strings).
		return "", nil
	}
	defer part.Close()

	decoder := xml.NewDecoder(part)
	var sb strings.Builder
	depth := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed XML in %s: %w", name, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if qualifiedName(t.Name) == textTag {
				depth++
			}
		case xml.EndElement:
			switch qualifiedName(t.Name) {
			case textTag:
				depth--
			case breakTag:
				sb.WriteString("\n")
			}
		case xml.CharData:
			if depth > 0 {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func qualifiedName(name xml.Name) string {
	switch name.Space {
	case "http://schemas.openxmlformats.org/wordprocessingml/2006/main":
		return "w:" + name.Local
	case "http://schemas.openxmlformats.org/drawingml/2006/main":
		return "a:" + name.Local
	default:
		return name.Local
	}
}
