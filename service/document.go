package service

import (
	"context"
	"log/slog"

	"f1stats/models"
)

type raceSource interface {
	GetRace(ctx context.Context, which models.RaceWhich) (*models.RaceRecord, error)
}

type documentStore interface {
	Update(section string) (bool, error)
}

// DocumentUpdater renders the standings report and keeps the README region
// in sync with it.
type DocumentUpdater struct {
	races raceSource
	doc   documentStore
	log   *slog.Logger
}

func NewDocumentUpdater(races raceSource, doc documentStore, log *slog.Logger) *DocumentUpdater {
	return &DocumentUpdater{races: races, doc: doc, log: log}
}

// UpdateDocument reports whether the document was rewritten. Race lookups
// never fail the update; a failed lookup renders as if there were no race.
func (u *DocumentUpdater) UpdateDocument(ctx context.Context, drivers models.DriverSnapshot, constructors models.ConstructorSnapshot) (bool, error) {
	return u.doc.Update(u.Render(ctx, drivers, constructors))
}

// Render fetches the last and next race and renders the report without
// touching the document.
func (u *DocumentUpdater) Render(ctx context.Context, drivers models.DriverSnapshot, constructors models.ConstructorSnapshot) string {
	last := u.race(ctx, models.RaceLast)
	next := u.race(ctx, models.RaceNext)
	return RenderReport(drivers, constructors, last, next)
}

func (u *DocumentUpdater) race(ctx context.Context, which models.RaceWhich) *models.RaceRecord {
	race, err := u.races.GetRace(ctx, which)
	if err != nil {
		if which == models.RaceNext {
			u.log.Info("Failed to fetch next race, season might be over", slog.Any("error", err))
		} else {
			u.log.Warn("Failed to fetch last race", slog.Any("error", err))
		}
		return nil
	}
	return race
}
