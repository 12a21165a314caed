package models

// Wire shapes of the Ergast-compatible API. Only the fields the sync reads
// are declared; field matching relies on encoding/json case folding.

type Object struct {
	MRData *MRData
}

type MRData struct {
	Series         string
	RaceTable      RaceTable
	StandingsTable StandingsTable
}

type StandingsTable struct {
	Season         string
	Round          string
	StandingsLists []StandingsListItem
}

type StandingsListItem struct {
	Season               string
	Round                string
	DriverStandings      []DriverStandingsItem
	ConstructorStandings []ConstructorStandingsItem
}

type DriverStandingsItem struct {
	Position     string
	PositionText string
	Points       string
	Wins         string
	Driver       Driver
	Constructors []Constructors
}

type ConstructorStandingsItem struct {
	Position    string
	Points      string
	Wins        string
	Constructor Constructors
}

type Driver struct {
	DriverId        string
	PermanentNumber string
	Code            *string
	GivenName       string
	FamilyName      string
	Nationality     string
}

type Constructors struct {
	ConstructorId string
	Url           string
	Name          string
	Nationality   string
}

type RaceTable struct {
	Season string
	Races  []Race
}

type Race struct {
	Season   string
	Round    string
	Url      string
	RaceName string
	Circuit  Circuit
	Date     string
	Time     string
}

type Circuit struct {
	CircuitId   string
	Url         string
	CircuitName string
	Location    Location
}

type Location struct {
	Lat      string
	Long     string
	Locality string
	Country  string
}
