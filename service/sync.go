package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"f1stats/models"
)

type standingsSource interface {
	GetDriverStandings(ctx context.Context) (models.DriverSnapshot, error)
	GetConstructorStandings(ctx context.Context) (models.ConstructorSnapshot, error)
}

type snapshotStore interface {
	Load(path string, value any) error
	WriteIfChanged(path string, value any) (bool, error)
}

type documentUpdater interface {
	UpdateDocument(ctx context.Context, drivers models.DriverSnapshot, constructors models.ConstructorSnapshot) (bool, error)
}

type notifier interface {
	Notify(ctx context.Context, message string) error
}

type SyncOptions struct {
	DataDir         string
	DriverPath      string
	ConstructorPath string
	Out             io.Writer
	Log             *slog.Logger
	// Notifier is optional. It is called when the standings or the README
	// changed; a new fetch time alone does not count.
	Notifier notifier
}

// SyncService runs one fetch-write-render cycle.
type SyncService struct {
	standings standingsSource
	store     snapshotStore
	doc       documentUpdater
	opts      SyncOptions
}

func NewSyncService(standings standingsSource, store snapshotStore, doc documentUpdater, opts SyncOptions) *SyncService {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	return &SyncService{standings: standings, store: store, doc: doc, opts: opts}
}

// Run fetches both championships, persists them and refreshes the README.
// Fetch errors abort the run before anything is written. It reports whether
// any artifact changed.
func (s *SyncService) Run(ctx context.Context) (bool, error) {
	if err := os.MkdirAll(s.opts.DataDir, 0o755); err != nil {
		return false, fmt.Errorf("error creating data dir: %w", err)
	}

	drivers, err := s.standings.GetDriverStandings(ctx)
	if err != nil {
		return false, fmt.Errorf("error fetching driver standings: %w", err)
	}
	constructors, err := s.standings.GetConstructorStandings(ctx)
	if err != nil {
		return false, fmt.Errorf("error fetching constructor standings: %w", err)
	}
	s.opts.Log.Info("Fetched standings",
		slog.String("season", drivers.SeasonLabel()),
		slog.Int("drivers", len(drivers.Standings)),
		slog.Int("constructors", len(constructors.Standings)))

	standingsMoved := snapshotMoved(s.store, s.opts.DriverPath, drivers) ||
		snapshotMoved(s.store, s.opts.ConstructorPath, constructors)

	driversChanged, err := s.store.WriteIfChanged(s.opts.DriverPath, drivers)
	if err != nil {
		return false, fmt.Errorf("error writing driver standings: %w", err)
	}
	constructorsChanged, err := s.store.WriteIfChanged(s.opts.ConstructorPath, constructors)
	if err != nil {
		return false, fmt.Errorf("error writing constructor standings: %w", err)
	}
	docChanged, err := s.doc.UpdateDocument(ctx, drivers, constructors)
	if err != nil {
		return false, fmt.Errorf("error updating document: %w", err)
	}

	changed := driversChanged || constructorsChanged || docChanged
	if !changed {
		fmt.Fprintln(s.opts.Out, "No repo changes.")
		return false, nil
	}

	fmt.Fprintln(s.opts.Out, "Repo updated with latest F1 data.")
	if s.opts.Notifier != nil && (standingsMoved || docChanged) {
		if err := s.opts.Notifier.Notify(ctx, SummaryMessage(drivers, constructors)); err != nil {
			s.opts.Log.Error("Error sending change notification", slog.Any("error", err))
		}
	}
	return true, nil
}

// snapshotMoved reports whether fresh differs from the snapshot stored at
// path in anything but its fetch time. A missing or corrupt file counts as
// moved.
func snapshotMoved[S any](store snapshotStore, path string, fresh S) bool {
	var prev S
	if err := store.Load(path, &prev); err != nil {
		return true
	}
	return !cmp.Equal(prev, fresh, cmpopts.IgnoreFields(fresh, "UpdatedAt"), cmpopts.EquateEmpty())
}
