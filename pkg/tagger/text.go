package tagger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// TextTagger tags plain-text files. The metadata sidecar comes first so
// the document's own content stays untouched; a comment header (known
// code/markup formats) and a trailing marker line are fallbacks for when
// the sidecar cannot be written.
type TextTagger struct{}

func (t *TextTagger) Tag(path, name, value string) error {
	if err := writeSidecar(path, name, value); err == nil {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := commentStyles[ext]; ok {
		if err := t.tagWithComment(path, name, value); err == nil {
			return nil
		}
	}

	return t.tagWithMarker(path, name, value)
}

// writeSidecar creates or updates a "<file>.metadata" sidecar holding
// "name: value" lines.
func writeSidecar(path, name, value string) error {
	sidecar := path + ".metadata"

	meta := map[string]string{}
	var order []string

	if data, err := os.ReadFile(sidecar); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			key, val, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			key = strings.TrimSpace(key)
			if _, seen := meta[key]; !seen {
				order = append(order, key)
			}
			meta[key] = strings.TrimSpace(val)
		}
	}

	if _, seen := meta[name]; !seen {
		order = append(order, name)
	}
	meta[name] = value

	var sb strings.Builder
	for _, key := range order {
		fmt.Fprintf(&sb, "%s: %s\n", key, meta[key])
	}

	return os.WriteFile(sidecar, []byte(sb.String()), 0600)
}

type commentStyle struct {
	start string
	end   string
}

var commentStyles = map[string]commentStyle{
	".py": {"#", ""}, ".rb": {"#", ""}, ".pl": {"#", ""},
	".sh": {"#", ""}, ".bash": {"#", ""}, ".ps1": {"#", ""},
	".r": {"#", ""}, ".yaml": {"#", ""}, ".yml": {"#", ""},
	".js": {"//", ""}, ".ts": {"//", ""}, ".java": {"//", ""},
	".c": {"//", ""}, ".cpp": {"//", ""}, ".h": {"//", ""},
	".cs": {"//", ""}, ".php": {"//", ""}, ".swift": {"//", ""},
	".kt": {"//", ""}, ".groovy": {"//", ""}, ".go": {"//", ""},
	".sql": {"--", ""}, ".lua": {"--", ""},
	".html": {"<!--", "-->"}, ".htm": {"<!--", "-->"}, ".xml": {"<!--", "-->"},
	".css": {"/*", "*/"},
	".bat": {"REM", ""}, ".cmd": {"REM", ""},
}

// tagWithComment inserts (or replaces) a metadata comment at the top of the
// file, after a shebang line if one is present.
func (t *TextTagger) tagWithComment(path, name, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)

	style := commentStyles[strings.ToLower(filepath.Ext(path))]
	line := strings.TrimRight(
		fmt.Sprintf("%s METADATA: %s=%s %s", style.start, name, value, style.end), " ",
	) + "\n"

	pattern := regexp.MustCompile(
		"(?m)^" + regexp.QuoteMeta(style.start) + `\s*METADATA:\s*` +
			regexp.QuoteMeta(name) + "=.*$\n?",
	)

	var updated string
	switch {
	case pattern.MatchString(content):
		updated = pattern.ReplaceAllString(content, line)
	case strings.HasPrefix(content, "#!"):
		shebang, rest, _ := strings.Cut(content, "\n")
		updated = shebang + "\n" + line + rest
	default:
		updated = line + content
	}

	return os.WriteFile(path, []byte(updated), 0600)
}

// tagWithMarker appends a marker line to the end of the file.
func (t *TextTagger) tagWithMarker(path, name, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	marker := fmt.Sprintf("### METADATA: %s=%s ###\n", name, value)
	if strings.Contains(string(data), marker) {
		return nil
	}

	out := data
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, []byte(marker)...)

	return os.WriteFile(path, out, 0600)
}
