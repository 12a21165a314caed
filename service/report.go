package service

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"f1stats/models"
)

// DataUnavailable replaces the whole report when either championship has no
// entries.
const DataUnavailable = "Data unavailable at the moment. Please try again later."

const (
	nextRaceFinished = "- 🗓 **Next race**: Season finished ✅"
	tableSize        = 10
)

// RenderReport builds the Markdown section placed between the README
// markers. last and next may be nil.
func RenderReport(drivers models.DriverSnapshot, constructors models.ConstructorSnapshot, last, next *models.RaceRecord) string {
	topDriver, ok := drivers.Leader()
	if !ok {
		return DataUnavailable
	}
	topConstructor, ok := constructors.Leader()
	if !ok {
		return DataUnavailable
	}

	season := drivers.SeasonLabel()
	lines := make([]string, 0, 16+tableSize)

	lines = append(lines, statusLine(season, next), "")

	if last != nil {
		lines = append(lines, raceLine("🏁 **Last race**", last))
	}
	if next != nil {
		lines = append(lines, raceLine("🗓 **Next race**", next))
	} else {
		lines = append(lines, nextRaceFinished)
	}
	lines = append(lines, "")

	lines = append(lines, leaderLines(season, next == nil, topDriver, topConstructor)...)
	lines = append(lines, "")

	lines = append(lines,
		fmt.Sprintf("## Top %d Drivers – %s", tableSize, season),
		"",
		"| Pos | Driver | Constructor | Points | Wins |",
		"| --- | ------ | ----------- | ------ | ---- |",
	)
	for i, row := range drivers.Standings {
		if i == tableSize {
			break
		}
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s | %d |",
			row.Position, row.Name, row.Constructor, formatPoints(row.Points), row.Wins))
	}

	return strings.Join(lines, "\n")
}

func statusLine(season string, next *models.RaceRecord) string {
	if next == nil {
		return fmt.Sprintf("🏁 **Season %s is finished.**", season)
	}
	return fmt.Sprintf("🏎️ **Season %s in progress.**", season)
}

func raceLine(label string, race *models.RaceRecord) string {
	return fmt.Sprintf("- %s (Round %d): %s – %s (%s, %s)",
		label, race.Round, race.Name, race.Circuit, race.Country, race.Date)
}

func leaderLines(season string, finished bool, driver models.DriverEntry, constructor models.ConstructorEntry) []string {
	driverStats := fmt.Sprintf("%s (%s pts, %d wins, %s)",
		driver.Name, formatPoints(driver.Points), driver.Wins, driver.Constructor)
	constructorStats := fmt.Sprintf("%s (%s pts, %d wins)",
		constructor.Name, formatPoints(constructor.Points), constructor.Wins)

	if finished {
		return []string{
			fmt.Sprintf("🏆 **Drivers' Champion (%s)**: %s", season, driverStats),
			fmt.Sprintf("🏆 **Constructors' Champion (%s)**: %s", season, constructorStats),
		}
	}
	return []string{
		"👑 Current drivers' leader: " + driverStats,
		"👑 Current constructors' leader: " + constructorStats,
	}
}

// formatPoints prints the shortest decimal that parses back to p.
func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// SummaryMessage is the plain-text digest sent to chat notifiers.
func SummaryMessage(drivers models.DriverSnapshot, constructors models.ConstructorSnapshot) string {
	if len(drivers.Standings) == 0 || len(constructors.Standings) == 0 {
		return "F1 standings: " + DataUnavailable
	}

	message := new(strings.Builder)
	fmt.Fprintf(message, "Личный зачёт F1, сезон %s:\n", drivers.SeasonLabel())
	message.WriteString(driversToString(drivers.Standings, 3))
	fmt.Fprintf(message, "\nКубок конструкторов F1, сезон %s:\n", constructors.SeasonLabel())
	message.WriteString(constructorsToString(constructors.Standings, 3))
	return message.String()
}

func driversToString(drivers []models.DriverEntry, limit int) string {
	message := new(strings.Builder)

	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', 0)
	for i, driver := range drivers {
		if i == limit {
			break
		}
		label := driver.Name
		if driver.Code != nil {
			label = *driver.Code
		}
		fmt.Fprintf(w, "%2d |\t%s\t- %s\n", driver.Position, label, formatPoints(driver.Points))
	}

	w.Flush()
	return message.String()
}

func constructorsToString(constructors []models.ConstructorEntry, limit int) string {
	message := new(strings.Builder)

	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', 0)
	for i, constructor := range constructors {
		if i == limit {
			break
		}
		fmt.Fprintf(w, "%2d |\t%s\t- %s\n", constructor.Position, constructor.Name, formatPoints(constructor.Points))
	}

	w.Flush()
	return message.String()
}
