package ergast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"f1stats/models"
	"f1stats/temperrors"
)

const userAgent = "f1stats"

type ErgastAPI struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*ErgastAPI)

func WithHTTPClient(client *http.Client) Option {
	return func(erg *ErgastAPI) { erg.client = client }
}

// WithTimeout bounds every single request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(erg *ErgastAPI) { erg.timeout = d }
}

// WithRateLimit paces outgoing requests to rps per second.
func WithRateLimit(rps float64) Option {
	return func(erg *ErgastAPI) { erg.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

func WithClock(now func() time.Time) Option {
	return func(erg *ErgastAPI) { erg.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(erg *ErgastAPI) { erg.log = log }
}

func NewErgastAPI(baseURL string, opts ...Option) *ErgastAPI {
	erg := &ErgastAPI{
		url:     strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Inf, 1),
		timeout: 30 * time.Second,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(erg)
	}
	return erg
}

// GetDriverStandings returns the drivers' championship of the current season.
// A season without published standings yields a snapshot with a nil season
// and no entries.
func (erg *ErgastAPI) GetDriverStandings(ctx context.Context) (models.DriverSnapshot, error) {
	snap := models.DriverSnapshot{
		Kind:      models.KindDriver,
		UpdatedAt: erg.timestamp(),
		Standings: []models.DriverEntry{},
	}

	resp, err := erg.getRequest(ctx, fmt.Sprintf("%s/current/driverStandings.json", erg.url))
	if err != nil {
		return models.DriverSnapshot{}, fmt.Errorf("in driverStanding: %w", err)
	}

	list, err := firstStandingsList(resp)
	if errors.Is(err, temperrors.ErrEmptyList) {
		erg.log.Info("No driver standings published yet")
		return snap, nil
	}
	if err != nil {
		return models.DriverSnapshot{}, fmt.Errorf("in driverStanding: %w", err)
	}

	season := list.Season
	snap.Season = &season
	for i, row := range list.DriverStandings {
		entry, err := toDriverEntry(row)
		if err != nil {
			return models.DriverSnapshot{}, fmt.Errorf("in driverStanding row %d: %w", i, err)
		}
		snap.Standings = append(snap.Standings, entry)
	}
	checkOrder(erg.log, models.KindDriver, snap.Standings)

	return snap, nil
}

// GetConstructorStandings returns the constructors' championship of the
// current season, with the same empty-season behaviour as GetDriverStandings.
func (erg *ErgastAPI) GetConstructorStandings(ctx context.Context) (models.ConstructorSnapshot, error) {
	snap := models.ConstructorSnapshot{
		Kind:      models.KindConstructor,
		UpdatedAt: erg.timestamp(),
		Standings: []models.ConstructorEntry{},
	}

	resp, err := erg.getRequest(ctx, fmt.Sprintf("%s/current/constructorStandings.json", erg.url))
	if err != nil {
		return models.ConstructorSnapshot{}, fmt.Errorf("in constructorStanding: %w", err)
	}

	list, err := firstStandingsList(resp)
	if errors.Is(err, temperrors.ErrEmptyList) {
		erg.log.Info("No constructor standings published yet")
		return snap, nil
	}
	if err != nil {
		return models.ConstructorSnapshot{}, fmt.Errorf("in constructorStanding: %w", err)
	}

	season := list.Season
	snap.Season = &season
	for i, row := range list.ConstructorStandings {
		entry, err := toConstructorEntry(row)
		if err != nil {
			return models.ConstructorSnapshot{}, fmt.Errorf("in constructorStanding row %d: %w", i, err)
		}
		snap.Standings = append(snap.Standings, entry)
	}
	checkOrder(erg.log, models.KindConstructor, snap.Standings)

	return snap, nil
}

// GetRace returns the last or next race of the current season, or nil when
// there is no such race.
func (erg *ErgastAPI) GetRace(ctx context.Context, which models.RaceWhich) (*models.RaceRecord, error) {
	resp, err := erg.getRequest(ctx, fmt.Sprintf("%s/current/%s.json", erg.url, which))
	if err != nil {
		return nil, fmt.Errorf("in %s race: %w", which, err)
	}
	if len(resp.MRData.RaceTable.Races) == 0 {
		return nil, nil
	}

	race, err := toRaceRecord(resp.MRData.RaceTable.Races[0])
	if err != nil {
		return nil, fmt.Errorf("in %s race: %w", which, err)
	}
	return race, nil
}

func (erg *ErgastAPI) timestamp() string {
	return erg.now().UTC().Format("2006-01-02T15:04:05Z")
}

func (erg *ErgastAPI) getRequest(ctx context.Context, url string) (models.Object, error) {
	var temp models.Object

	if err := erg.limiter.Wait(ctx); err != nil {
		return temp, &temperrors.TransportError{URL: url, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, erg.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return temp, &temperrors.TransportError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := erg.client.Do(req)
	if err != nil {
		return temp, &temperrors.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return temp, &temperrors.TransportError{URL: url, StatusCode: resp.StatusCode}
	}
	erg.log.Debug("OK get request", slog.String("url", url), slog.Int("status", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return temp, &temperrors.TransportError{URL: url, Err: fmt.Errorf("error reading response: %w", err)}
	}

	if err := json.Unmarshal(body, &temp); err != nil {
		return temp, &temperrors.DataShapeError{Field: "body", Value: truncate(string(body), 64), Err: err}
	}
	if temp.MRData == nil {
		return temp, &temperrors.DataShapeError{Field: "MRData", Value: truncate(string(body), 64)}
	}
	return temp, nil
}

func firstStandingsList(resp models.Object) (models.StandingsListItem, error) {
	lists := resp.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return models.StandingsListItem{}, temperrors.ErrEmptyList
	}
	return lists[0], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
