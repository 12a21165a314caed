package storage

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1stats/models"
	"f1stats/temperrors"
)

func newStore(out io.Writer) *JSONStore {
	return NewJSONStore(out, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strPtr(s string) *string { return &s }

func sampleSnapshot() models.DriverSnapshot {
	return models.DriverSnapshot{
		Season:    strPtr("2024"),
		Kind:      models.KindDriver,
		UpdatedAt: "2024-12-09T09:30:15Z",
		Standings: []models.DriverEntry{
			{Position: 1, Points: 437, Wins: 9, DriverID: "max_verstappen", Code: strPtr("VER"), Name: "Max Verstappen", Nationality: "Dutch", Constructor: "Red Bull"},
			{Position: 2, Points: 374.5, Wins: 3, DriverID: "norris", Name: "Lando Norris", Nationality: "British", Constructor: "McLaren"},
		},
	}
}

func TestWriteIfChanged_SecondWriteIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver_standings.json")
	var out bytes.Buffer
	store := newStore(&out)

	changed, err := store.WriteIfChanged(path, sampleSnapshot())
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	before := info.ModTime()

	changed, err = store.WriteIfChanged(path, sampleSnapshot())
	require.NoError(t, err)
	assert.False(t, changed)

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before, info.ModTime())

	assert.Equal(t, "Updated "+path+"\nNo changes detected for "+path+"\n", out.String())
}

func TestLoad_DecodesWrittenSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver_standings.json")
	store := newStore(io.Discard)
	_, err := store.WriteIfChanged(path, sampleSnapshot())
	require.NoError(t, err)

	var got models.DriverSnapshot
	require.NoError(t, store.Load(path, &got))
	assert.Equal(t, sampleSnapshot(), got)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	assert.ErrorIs(t, store.Load(path, &got), temperrors.ErrCorruptState)
	assert.ErrorIs(t, store.Load(filepath.Join(t.TempDir(), "missing.json"), &got), os.ErrNotExist)
}

func TestWriteIfChanged_DetectsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver_standings.json")
	store := newStore(io.Discard)

	_, err := store.WriteIfChanged(path, sampleSnapshot())
	require.NoError(t, err)

	snap := sampleSnapshot()
	snap.Standings[1].Points = 375
	changed, err := store.WriteIfChanged(path, snap)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestWriteIfChanged_CorruptFileIsOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constructor_standings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	changed, err := newStore(io.Discard).WriteIfChanged(path, sampleSnapshot())
	require.NoError(t, err)
	assert.True(t, changed)

	var decoded models.DriverSnapshot
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleSnapshot(), decoded)
}

func TestWriteIfChanged_IgnoresFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	compact, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, compact, 0o644))

	changed, err := newStore(io.Discard).WriteIfChanged(path, sampleSnapshot())
	require.NoError(t, err)
	assert.False(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, compact, data)
}

func TestWriteIfChanged_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "snap.json")

	_, err := newStore(io.Discard).WriteIfChanged(path, sampleSnapshot())
	assert.Error(t, err)
}

func TestCanonical_SortedIndentedWithNewline(t *testing.T) {
	snap := models.ConstructorSnapshot{
		Kind:      models.KindConstructor,
		UpdatedAt: "2025-03-01T00:00:00Z",
		Standings: []models.ConstructorEntry{},
	}

	data, err := Canonical(snap)
	require.NoError(t, err)

	want := `{
  "kind": "constructor",
  "season": null,
  "standings": [],
  "updated_at_utc": "2025-03-01T00:00:00Z"
}
`
	assert.Equal(t, want, string(data))
}

func TestCanonical_KeepsNumbersExact(t *testing.T) {
	data, err := Canonical(map[string]float64{"points": 374.5, "wins": 9})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"points\": 374.5,\n  \"wins\": 9\n}\n", string(data))
}

func TestSnapshotRoundTrip(t *testing.T) {
	data, err := Canonical(sampleSnapshot())
	require.NoError(t, err)

	var decoded models.DriverSnapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleSnapshot(), decoded)
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.json", entries[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}
