package tagger

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFTagger writes the classification into the PDF document properties.
// Keywords and Subject are set as well so keyword-based DLP scanners see
// the tag.
type PDFTagger struct{}

func (t *PDFTagger) Tag(path, name, value string) error {
	properties := map[string]string{
		name:       value,
		"Keywords": fmt.Sprintf("%s: %s", name, value),
		"Subject":  fmt.Sprintf("%s: %s", name, value),
	}

	tmp := path + ".tmp"
	if err := api.AddPropertiesFile(path, tmp, properties, nil); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to tag PDF: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace tagged PDF: %w", err)
	}

	return nil
}
