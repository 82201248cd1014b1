// Package reader extracts plain text from uploaded documents so it can be
// sent to the classification API.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Reader interface {
	Read(path string) (string, error)
}

var officeExtensions = map[string]bool{
	".docx": true,
	".xlsx": true,
	".pptx": true,
	".doc":  true,
	".xls":  true,
	".ppt":  true,
}

// ForFile selects a reader by file extension. Anything that is not a PDF or
// an Office document is treated as text.
func ForFile(path string) (Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return &PDFReader{}, nil
	case officeExtensions[ext]:
		return &OfficeReader{}, nil
	default:
		return &TextReader{}, nil
	}
}
