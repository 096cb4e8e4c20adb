package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/khanhnv2901/siteverify/internal/audit"
	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

// Format is a report rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

var extensions = map[Format]string{
	FormatJSON:     ".json",
	FormatMarkdown: ".md",
	FormatYAML:     ".yaml",
}

// ParseFormats validates and deduplicates format names. An empty list means JSON.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return []Format{FormatJSON}, nil
	}

	seen := make(map[Format]bool)
	formats := make([]Format, 0, len(names))
	for _, name := range names {
		f := Format(strings.ToLower(strings.TrimSpace(name)))
		if f == "md" {
			f = FormatMarkdown
		}
		if f == "yml" {
			f = FormatYAML
		}
		if _, ok := extensions[f]; !ok {
			return nil, fmt.Errorf("%w: %q", sharedErrors.ErrInvalidFormat, name)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// Written describes one persisted report file.
type Written struct {
	Format Format
	Path   string
	SHA256 string
}

// Writer persists reports into a directory, one file per format, each with a
// .sha256 companion.
type Writer struct {
	Dir     string
	Formats []Format
}

// Write renders rep in every configured format.
func (w *Writer) Write(rep *audit.Report) ([]Written, error) {
	if err := os.MkdirAll(w.Dir, consts.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	formats := w.Formats
	if len(formats) == 0 {
		formats = []Format{FormatJSON}
	}

	stem := fileStem(rep.Domain, rep.Timestamp.UTC().Format("20060102_150405"))
	written := make([]Written, 0, len(formats))
	for _, f := range formats {
		path, err := resolveWithin(w.Dir, stem+extensions[f])
		if err != nil {
			return written, err
		}

		var buf bytes.Buffer
		if err := Render(&buf, rep, f); err != nil {
			return written, fmt.Errorf("render %s: %w", f, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), consts.DefaultFilePerm); err != nil {
			return written, fmt.Errorf("write %s report: %w", f, err)
		}

		sum, err := writeChecksum(path)
		if err != nil {
			return written, err
		}
		written = append(written, Written{Format: f, Path: path, SHA256: sum})
	}
	return written, nil
}

// Render writes rep to out in format f.
func Render(out io.Writer, rep *audit.Report, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(out, rep)
	case FormatMarkdown:
		return writeMarkdown(out, rep)
	case FormatYAML:
		return writeYAML(out, rep)
	}
	return fmt.Errorf("%w: %q", sharedErrors.ErrInvalidFormat, f)
}

func writeJSON(out io.Writer, rep *audit.Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rep)
}
