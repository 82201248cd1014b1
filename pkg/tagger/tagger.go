// Package tagger writes a classification label into a document's metadata
// so downstream DLP tooling can pick it up.
package tagger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Tagger interface {
	Tag(path, name, value string) error
}

var textExtensions = map[string]bool{
	".txt": true, ".log": true, ".md": true, ".markdown": true,
	".csv": true, ".tsv": true,
	".py": true, ".js": true, ".ts": true, ".html": true, ".htm": true,
	".css": true, ".xml": true, ".json": true, ".yaml": true, ".yml": true,
	".ini": true, ".cfg": true, ".conf": true, ".sh": true, ".bash": true,
	".bat": true, ".ps1": true, ".cmd": true, ".java": true, ".c": true,
	".cpp": true, ".h": true, ".cs": true, ".go": true, ".rs": true,
	".rb": true, ".pl": true, ".php": true, ".sql": true, ".lua": true,
	".r": true, ".swift": true, ".kt": true, ".groovy": true,
	".scala": true, ".tex": true,
}

var ooxmlExtensions = map[string]bool{
	".docx": true, ".xlsx": true, ".pptx": true,
	".doc": true, ".xls": true, ".ppt": true,
}

// ForFile picks a tagger for the file. Text formats take precedence, then
// PDF, then Office; unknown types are content-sniffed and fall back to the
// Office tagger, which degrades to a metadata sidecar.
func ForFile(path string) (Tagger, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case textExtensions[ext]:
		return &TextTagger{}, nil
	case ext == ".pdf":
		return &PDFTagger{}, nil
	case ooxmlExtensions[ext]:
		return &OfficeTagger{}, nil
	}

	if looksLikeText(path) {
		return &TextTagger{}, nil
	}
	return &OfficeTagger{}, nil
}

// looksLikeText reports whether the first bytes of the file are mostly
// printable ASCII.
func looksLikeText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil || n == 0 {
		return false
	}
	header = header[:n]

	printable := 0
	for _, b := range header {
		if (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r' {
			printable++
		}
	}
	return float64(printable)/float64(len(header)) > 0.8
}
