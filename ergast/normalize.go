package ergast

import (
	"errors"
	"log/slog"
	"math"
	"strconv"

	"f1stats/models"
	"f1stats/temperrors"
)

var (
	errNegative = errors.New("must not be negative")
	errNotRank  = errors.New("must be at least 1")
	errNotReal  = errors.New("must be a finite number")
	errMissing  = errors.New("missing")
)

func toDriverEntry(row models.DriverStandingsItem) (models.DriverEntry, error) {
	var entry models.DriverEntry
	var err error

	if entry.Position, err = parsePosition(row.Position); err != nil {
		return entry, err
	}
	if entry.Points, err = parsePoints(row.Points); err != nil {
		return entry, err
	}
	if entry.Wins, err = parseCount("wins", row.Wins); err != nil {
		return entry, err
	}

	driver := row.Driver
	if driver.DriverId == "" {
		return entry, &temperrors.DataShapeError{Field: "Driver.driverId", Err: errMissing}
	}
	if len(row.Constructors) == 0 {
		return entry, &temperrors.DataShapeError{Field: "Constructors", Value: driver.DriverId, Err: errMissing}
	}

	entry.DriverID = driver.DriverId
	if driver.Code != nil && *driver.Code != "" {
		code := *driver.Code
		entry.Code = &code
	}
	entry.Name = driver.GivenName + " " + driver.FamilyName
	entry.Nationality = driver.Nationality
	entry.Constructor = row.Constructors[0].Name

	return entry, nil
}

func toConstructorEntry(row models.ConstructorStandingsItem) (models.ConstructorEntry, error) {
	var entry models.ConstructorEntry
	var err error

	if entry.Position, err = parsePosition(row.Position); err != nil {
		return entry, err
	}
	if entry.Points, err = parsePoints(row.Points); err != nil {
		return entry, err
	}
	if entry.Wins, err = parseCount("wins", row.Wins); err != nil {
		return entry, err
	}

	constructor := row.Constructor
	if constructor.ConstructorId == "" {
		return entry, &temperrors.DataShapeError{Field: "Constructor.constructorId", Err: errMissing}
	}

	entry.ConstructorID = constructor.ConstructorId
	entry.Name = constructor.Name
	entry.Nationality = constructor.Nationality

	return entry, nil
}

func toRaceRecord(race models.Race) (*models.RaceRecord, error) {
	round, err := strconv.Atoi(race.Round)
	if err != nil {
		return nil, &temperrors.DataShapeError{Field: "round", Value: race.Round, Err: err}
	}
	if round < 1 {
		return nil, &temperrors.DataShapeError{Field: "round", Value: race.Round, Err: errNotRank}
	}

	return &models.RaceRecord{
		Round:   round,
		Name:    race.RaceName,
		Circuit: race.Circuit.CircuitName,
		Date:    race.Date,
		Country: race.Circuit.Location.Country,
	}, nil
}

func parsePosition(raw string) (int, error) {
	pos, err := parseCount("position", raw)
	if err != nil {
		return 0, err
	}
	if pos < 1 {
		return 0, &temperrors.DataShapeError{Field: "position", Value: raw, Err: errNotRank}
	}
	return pos, nil
}

func parseCount(field, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &temperrors.DataShapeError{Field: field, Value: raw, Err: err}
	}
	if v < 0 {
		return 0, &temperrors.DataShapeError{Field: field, Value: raw, Err: errNegative}
	}
	return v, nil
}

func parsePoints(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &temperrors.DataShapeError{Field: "points", Value: raw, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &temperrors.DataShapeError{Field: "points", Value: raw, Err: errNotReal}
	}
	if v < 0 {
		return 0, &temperrors.DataShapeError{Field: "points", Value: raw, Err: errNegative}
	}
	return v, nil
}

// checkOrder warns when positions are not strictly increasing. Upstream order
// is kept as is.
func checkOrder[E models.Entry](log *slog.Logger, kind models.Kind, entries []E) {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].Rank(), entries[i].Rank()
		if cur <= prev {
			log.Warn("Standings positions out of order",
				slog.String("kind", string(kind)),
				slog.Int("index", i),
				slog.Int("previous", prev),
				slog.Int("position", cur))
		}
	}
}
