package reader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFReader extracts the plain text of a PDF document.
type PDFReader struct{}

func (r *PDFReader) Read(path string) (string, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	content, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return buf.String(), nil
}
