package models

// Kind selects the standings category.
type Kind string

const (
	KindDriver      Kind = "driver"
	KindConstructor Kind = "constructor"
)

// RaceWhich selects a race relative to the current date.
type RaceWhich string

const (
	RaceLast RaceWhich = "last"
	RaceNext RaceWhich = "next"
)

// Entry is a single ranked row of a standings snapshot.
type Entry interface {
	DriverEntry | ConstructorEntry
	Rank() int
}

// DriverEntry is one row of the drivers' championship.
type DriverEntry struct {
	Position    int     `json:"position"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
	DriverID    string  `json:"driverId"`
	Code        *string `json:"code"` // nil when the API has no three-letter code
	Name        string  `json:"name"`
	Nationality string  `json:"nationality"`
	Constructor string  `json:"constructor"`
}

func (e DriverEntry) Rank() int { return e.Position }

// ConstructorEntry is one row of the constructors' championship.
type ConstructorEntry struct {
	Position      int     `json:"position"`
	Points        float64 `json:"points"`
	Wins          int     `json:"wins"`
	ConstructorID string  `json:"constructorId"`
	Name          string  `json:"name"`
	Nationality   string  `json:"nationality"`
}

func (e ConstructorEntry) Rank() int { return e.Position }

// StandingsSnapshot is the normalized result of one standings fetch.
// Season is nil when the API has not published standings yet.
type StandingsSnapshot[E Entry] struct {
	Season    *string `json:"season"`
	Kind      Kind    `json:"kind"`
	UpdatedAt string  `json:"updated_at_utc"`
	Standings []E     `json:"standings"`
}

type (
	DriverSnapshot      = StandingsSnapshot[DriverEntry]
	ConstructorSnapshot = StandingsSnapshot[ConstructorEntry]
)

// SeasonLabel returns the season or an empty string when absent.
func (s StandingsSnapshot[E]) SeasonLabel() string {
	if s.Season == nil {
		return ""
	}
	return *s.Season
}

// Leader returns the first-ranked entry. ok is false for an empty snapshot.
func (s StandingsSnapshot[E]) Leader() (leader E, ok bool) {
	if len(s.Standings) == 0 {
		return leader, false
	}
	return s.Standings[0], true
}

// RaceRecord is the flattened view of a single race.
type RaceRecord struct {
	Round   int    `json:"round"`
	Name    string `json:"raceName"`
	Circuit string `json:"circuit"`
	Date    string `json:"date"` // YYYY-MM-DD
	Country string `json:"country"`
}
