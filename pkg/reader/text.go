package reader

import (
	"fmt"
	"os"
	"strings"
)

// TextReader reads a file as UTF-8 text, replacing invalid byte sequences.
type TextReader struct{}

func (r *TextReader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
