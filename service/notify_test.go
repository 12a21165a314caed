package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1stats/ergast"
	"f1stats/readme"
	"f1stats/storage"
)

const (
	driverStandingsBody = `{"MRData":{"StandingsTable":{"StandingsLists":[{"season":"2024","DriverStandings":[
{"position":"1","points":"POINTS","wins":"9","Driver":{"driverId":"max_verstappen","code":"VER","givenName":"Max","familyName":"Verstappen","nationality":"Dutch"},"Constructors":[{"constructorId":"red_bull","name":"Red Bull","nationality":"Austrian"}]}]}]}}}`
	constructorStandingsBody = `{"MRData":{"StandingsTable":{"StandingsLists":[{"season":"2024","ConstructorStandings":[
{"position":"1","points":"666","wins":"6","Constructor":{"constructorId":"mclaren","name":"McLaren","nationality":"British"}}]}]}}}`
	lastRaceBody = `{"MRData":{"RaceTable":{"Races":[{"round":"24","raceName":"Abu Dhabi Grand Prix","date":"2024-12-08","Circuit":{"circuitName":"Yas Marina Circuit","Location":{"country":"UAE"}}}]}}}`
	noRaceBody   = `{"MRData":{"RaceTable":{"Races":[]}}}`
)

type upstream struct {
	mu     sync.Mutex
	points string
}

func (u *upstream) setPoints(points string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.points = points
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	points := u.points
	u.mu.Unlock()

	switch r.URL.Path {
	case "/current/driverStandings.json":
		io.WriteString(w, strings.Replace(driverStandingsBody, "POINTS", points, 1))
	case "/current/constructorStandings.json":
		io.WriteString(w, constructorStandingsBody)
	case "/current/last.json":
		io.WriteString(w, lastRaceBody)
	case "/current/next.json":
		io.WriteString(w, noRaceBody)
	default:
		http.NotFound(w, r)
	}
}

func TestRun_NotifiesOnlyWhenStandingsMove(t *testing.T) {
	up := &upstream{points: "437"}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	clock := time.Date(2024, 12, 9, 9, 30, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(24 * time.Hour)
		return clock
	}

	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := ergast.NewErgastAPI(srv.URL,
		ergast.WithHTTPClient(srv.Client()),
		ergast.WithRateLimit(100),
		ergast.WithClock(now),
		ergast.WithLogger(log),
	)
	doc := readme.NewDocument(filepath.Join(dir, "README.md"), io.Discard, log)
	notifier := &fakeNotifier{}
	svc := NewSyncService(api, storage.NewJSONStore(io.Discard, log), NewDocumentUpdater(api, doc, log), SyncOptions{
		DataDir:         filepath.Join(dir, "data"),
		DriverPath:      filepath.Join(dir, "data", "driver_standings.json"),
		ConstructorPath: filepath.Join(dir, "data", "constructor_standings.json"),
		Log:             log,
		Notifier:        notifier,
	})

	for run := 1; run <= 3; run++ {
		changed, err := svc.Run(context.Background())
		require.NoError(t, err, "run %d", run)
		assert.True(t, changed, "run %d rewrites the fetch time", run)
	}
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "VER")

	up.setPoints("462")
	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, notifier.messages, 2)
	assert.Contains(t, notifier.messages[1], "462")
}
