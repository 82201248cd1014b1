package tagger

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const corePropertiesPart = "docProps/core.xml"

const emptyCoreProperties = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"></cp:coreProperties>`

// OfficeTagger rewrites the core properties of an Office Open XML document
// (keywords, subject, category). Files that are not OOXML archives fall
// back to a metadata sidecar.
type OfficeTagger struct{}

func (t *OfficeTagger) Tag(path, name, value string) error {
	if !ooxmlExtensions[strings.ToLower(filepath.Ext(path))] {
		return writeSidecar(path, name, value)
	}

	if err := t.rewriteCoreProperties(path, name, value); err != nil {
		// Legacy binary Office files are not zip archives; the sidecar
		// still records the classification.
		return writeSidecar(path, name, value)
	}
	return nil
}

func (t *OfficeTagger) rewriteCoreProperties(path, name, value string) error {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open Office archive: %w", err)
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	tag := fmt.Sprintf("%s: %s", name, value)
	coreSeen := false

	for _, file := range archive.File {
		var content []byte
		rc, err := file.Open()
		if err != nil {
			archive.Close()
			return fmt.Errorf("failed to read archive entry %s: %w", file.Name, err)
		}
		content, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			archive.Close()
			return fmt.Errorf("failed to read archive entry %s: %w", file.Name, err)
		}

		if file.Name == corePropertiesPart {
			content = []byte(setCoreProperties(string(content), tag))
			coreSeen = true
		}

		w, err := writer.Create(file.Name)
		if err != nil {
			archive.Close()
			return fmt.Errorf("failed to write archive entry %s: %w", file.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			archive.Close()
			return fmt.Errorf("failed to write archive entry %s: %w", file.Name, err)
		}
	}
	archive.Close()

	if !coreSeen {
		w, err := writer.Create(corePropertiesPart)
		if err != nil {
			return fmt.Errorf("failed to create core properties: %w", err)
		}
		if _, err := w.Write([]byte(setCoreProperties(emptyCoreProperties, tag))); err != nil {
			return fmt.Errorf("failed to create core properties: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write tagged archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace tagged archive: %w", err)
	}

	return nil
}

var corePropertyTags = []struct {
	element string
	pattern *regexp.Regexp
}{
	{"cp:keywords", regexp.MustCompile(`(?s)<cp:keywords[^>]*>.*?</cp:keywords>`)},
	{"dc:subject", regexp.MustCompile(`(?s)<dc:subject[^>]*>.*?</dc:subject>`)},
	{"cp:category", regexp.MustCompile(`(?s)<cp:category[^>]*>.*?</cp:category>`)},
}

// setCoreProperties replaces or injects the tag-bearing elements of
// core.xml. The XML is edited textually to preserve the untouched parts of
// the document byte for byte.
func setCoreProperties(coreXML, tag string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(tag))
	tagValue := escaped.String()

	for _, prop := range corePropertyTags {
		element := fmt.Sprintf("<%s>%s</%s>", prop.element, tagValue, prop.element)
		if prop.pattern.MatchString(coreXML) {
			coreXML = prop.pattern.ReplaceAllString(coreXML, element)
		} else {
			coreXML = strings.Replace(coreXML, "</cp:coreProperties>", element+"</cp:coreProperties>", 1)
		}
	}

	return coreXML
}
