// Package storage persists snapshots as canonical JSON files and only
// touches disk when the content actually changed.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"

	"f1stats/temperrors"
)

type JSONStore struct {
	out io.Writer
	log *slog.Logger
}

// NewJSONStore returns a store that reports progress lines to out.
func NewJSONStore(out io.Writer, log *slog.Logger) *JSONStore {
	return &JSONStore{out: out, log: log}
}

// WriteIfChanged writes value to path unless the file already holds a
// structurally equal document. A missing or unparsable file counts as no
// prior value. It reports whether the file was written.
func (s *JSONStore) WriteIfChanged(path string, value any) (bool, error) {
	data, err := Canonical(value)
	if err != nil {
		return false, fmt.Errorf("error encoding %s: %w", path, err)
	}

	var fresh any
	if err := json.Unmarshal(data, &fresh); err != nil {
		return false, fmt.Errorf("error decoding %s: %w", path, err)
	}

	existing, found := s.readExisting(path)
	if found && cmp.Equal(existing, fresh) {
		fmt.Fprintf(s.out, "No changes detected for %s\n", path)
		return false, nil
	}

	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return false, err
	}

	fmt.Fprintf(s.out, "Updated %s\n", path)
	return true, nil
}

// Load decodes the JSON file at path into value.
func (s *JSONStore) Load(path string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("%w: %s: %w", temperrors.ErrCorruptState, path, err)
	}
	return nil
}

func (s *JSONStore) readExisting(path string) (any, bool) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("Unreadable snapshot, overwriting",
			slog.String("path", path),
			slog.Any("error", fmt.Errorf("%w: %w", temperrors.ErrCorruptState, err)))
		return nil, false
	}

	var existing any
	if err := json.Unmarshal(data, &existing); err != nil {
		s.log.Warn("Corrupt snapshot, overwriting",
			slog.String("path", path),
			slog.Any("error", fmt.Errorf("%w: %w", temperrors.ErrCorruptState, err)))
		return nil, false
	}
	return existing, true
}

// Canonical encodes value with sorted keys, two-space indentation and a
// trailing newline. Struct field order is dropped by round-tripping through
// a generic value, whose maps encoding/json always emits in key order.
func Canonical(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
