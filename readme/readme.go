// Package readme owns the auto-generated region of a Markdown document.
//
// The region is delimited by StartMarker and EndMarker. Everything between
// the first start marker and the first end marker after it is replaced on
// every update; bytes outside the markers are never modified.
package readme

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"f1stats/storage"
	"f1stats/temperrors"
)

const (
	StartMarker = "<!-- F1_AUTO_START -->"
	EndMarker   = "<!-- F1_AUTO_END -->"
)

// EmptyDocument is the content assumed for a document that does not exist.
const EmptyDocument = StartMarker + "\n" + EndMarker + "\n"

// Splice returns doc with the marked region set to section. When doc has no
// complete marker pair a new region is appended after a blank line.
func Splice(doc, section string) string {
	if start := strings.Index(doc, StartMarker); start >= 0 {
		bodyStart := start + len(StartMarker)
		if end := strings.Index(doc[bodyStart:], EndMarker); end >= 0 {
			return doc[:bodyStart] + "\n" + section + "\n" + doc[bodyStart+end:]
		}
	}

	region := StartMarker + "\n" + section + "\n" + EndMarker + "\n"
	trimmed := strings.TrimRightFunc(doc, unicode.IsSpace)
	if trimmed == "" {
		return region
	}
	return trimmed + "\n\n" + region
}

// Region returns the text strictly between the markers and whether a
// complete marker pair was found.
func Region(doc string) (string, bool) {
	start := strings.Index(doc, StartMarker)
	if start < 0 {
		return "", false
	}
	body := doc[start+len(StartMarker):]
	end := strings.Index(body, EndMarker)
	if end < 0 {
		return "", false
	}
	return body[:end], true
}

type Document struct {
	path string
	out  io.Writer
	log  *slog.Logger
}

func NewDocument(path string, out io.Writer, log *slog.Logger) *Document {
	return &Document{path: path, out: out, log: log}
}

// Read returns the current document text. A missing or unreadable document
// reads as EmptyDocument.
func (d *Document) Read() string {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		d.log.Info("Document missing, starting from markers only", slog.String("path", d.path))
		return EmptyDocument
	}
	if err != nil {
		d.log.Warn("Unreadable document, starting from markers only",
			slog.String("path", d.path),
			slog.Any("error", fmt.Errorf("%w: %w", temperrors.ErrCorruptState, err)))
		return EmptyDocument
	}
	return string(data)
}

// Update splices section into the document and writes it back if the text
// changed. It reports whether the file was written.
func (d *Document) Update(section string) (bool, error) {
	perm := os.FileMode(0o644)
	info, statErr := os.Stat(d.path)
	exists := statErr == nil
	if exists {
		perm = info.Mode().Perm()
	}

	original := d.Read()
	if _, ok := Region(original); !ok {
		d.log.Info("Markers missing, appending region", slog.String("path", d.path))
	}
	updated := Splice(original, section)

	if exists && updated == original {
		fmt.Fprintf(d.out, "No changes detected for %s\n", d.path)
		return false, nil
	}

	if err := storage.WriteFileAtomic(d.path, []byte(updated), perm); err != nil {
		return false, err
	}

	fmt.Fprintf(d.out, "Updated %s\n", d.path)
	return true, nil
}
