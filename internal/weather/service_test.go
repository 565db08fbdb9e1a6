package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc     *Service
	state   *State
	geo     *fakeGeocoder
	source  *fakeSource
	history *fakeHistory
	metrics *fakeMetrics
}

func newFixture(t *testing.T, online bool, opts Options) serviceFixture {
	t.Helper()

	f := serviceFixture{
		state:   NewState(online),
		geo:     &fakeGeocoder{places: map[string]Place{"Durban": durban}},
		source:  &fakeSource{forecast: durbanForecast()},
		history: &fakeHistory{},
		metrics: &fakeMetrics{},
	}
	opts.Metrics = f.metrics
	opts.Now = func() time.Time { return testObserved }
	f.svc = NewService(f.state, f.geo, f.source, f.history, zerolog.Nop(), opts)
	return f
}

func TestService_SearchDurban(t *testing.T) {
	f := newFixture(t, true, Options{ConditionMessages: true})

	out, err := f.svc.Search(context.Background(), "Durban")
	require.NoError(t, err)

	assert.Equal(t, PhaseDone, out.Phase)
	assert.Equal(t, TriggerSearch, out.Trigger)
	assert.Equal(t, []Phase{PhaseIdle, PhaseResolving, PhaseFetching, PhaseNormalizing, PhaseDone}, out.Trace)
	assert.NotEqual(t, uuid.Nil, out.ID)

	require.NotNil(t, out.Report)
	assert.Equal(t, "22°C", Render(*out.Report, Celsius, ViewDaily, false).Temperature)
	assert.Equal(t, "72°F", Render(*out.Report, Fahrenheit, ViewDaily, false).Temperature)

	require.NotNil(t, out.Notification)
	assert.Equal(t, Notification{Message: "Weather for Durban loaded. Clear skies", Severity: SeveritySuccess}, *out.Notification)

	snap := f.state.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, out.Report, snap.Report)
	assert.Equal(t, out.Notification, snap.Notification)

	entries := f.svc.History()
	require.Len(t, entries, 1)
	assert.Equal(t, "Durban", entries[0].City)
	assert.Equal(t, 22, entries[0].TempC)
	assert.Equal(t, [][2]float64{{-29.85, 31.02}}, f.source.requests)
	assert.Equal(t, []string{"search:done"}, f.metrics.outcomes)
	assert.Equal(t, 1, f.metrics.size)
}

func TestService_SearchPassesCountryCode(t *testing.T) {
	f := newFixture(t, true, Options{})

	_, err := f.svc.Search(context.Background(), " Durban,za ")
	require.NoError(t, err)

	require.Len(t, f.geo.searches, 1)
	assert.Equal(t, PlaceQuery{Name: "Durban", CountryCode: "ZA"}, f.geo.searches[0])
}

func TestService_SearchNotFound(t *testing.T) {
	f := newFixture(t, true, Options{})

	out, err := f.svc.Search(context.Background(), "Xyzzyqq")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, PhaseFailed, out.Phase)
	assert.Equal(t, []Phase{PhaseIdle, PhaseResolving, PhaseFailed}, out.Trace)
	assert.Equal(t, Notification{Message: "City not found", Severity: SeverityError}, *f.state.Snapshot().Notification)
	assert.Empty(t, f.svc.History())
	assert.Zero(t, f.source.calls())
	assert.Equal(t, []string{"search:failed"}, f.metrics.outcomes)
}

func TestService_SearchOffline(t *testing.T) {
	f := newFixture(t, false, Options{})

	out, err := f.svc.Search(context.Background(), "Durban")
	require.ErrorIs(t, err, ErrOffline)

	assert.Equal(t, PhaseFailed, out.Phase)
	assert.Zero(t, f.geo.calls())
	assert.Zero(t, f.source.calls())
	assert.Equal(t, "You are offline. Only cached data available.", f.state.Snapshot().Notification.Message)
	assert.False(t, f.state.Snapshot().Loading)
}

func TestService_SearchBlankIsIgnored(t *testing.T) {
	f := newFixture(t, true, Options{})

	var changes int
	f.state.Subscribe(func(Snapshot) { changes++ })

	out, err := f.svc.Search(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyQuery)

	assert.Equal(t, PhaseIdle, out.Phase)
	assert.Zero(t, changes)
	assert.Zero(t, f.geo.calls())
}

func TestService_FetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		forecast Forecast
		err      error
		wantErr  error
		message  string
	}{
		{
			name:     "no current block",
			forecast: Forecast{Daily: durbanForecast().Daily},
			wantErr:  ErrNoData,
			message:  "No weather data returned",
		},
		{
			name:    "transport",
			err:     &TransportError{Op: "forecast", Err: errors.New("dial tcp: timeout")},
			message: "Error fetching weather",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true, Options{})
			f.source.forecast, f.source.err = tt.forecast, tt.err

			out, err := f.svc.Search(context.Background(), "Durban")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			assert.Equal(t, []Phase{PhaseIdle, PhaseResolving, PhaseFetching, PhaseFailed}, out.Trace)
			assert.Equal(t, tt.message, f.state.Snapshot().Notification.Message)
			assert.Empty(t, f.svc.History())
		})
	}
}

func TestService_ConditionMessagesDisabled(t *testing.T) {
	f := newFixture(t, true, Options{ConditionMessages: false})

	out, err := f.svc.Search(context.Background(), "Durban")
	require.NoError(t, err)
	assert.Equal(t, "Weather for Durban loaded", out.Notification.Message)
}

func TestService_HistoryPersistFailureStillSucceeds(t *testing.T) {
	f := newFixture(t, true, Options{})
	f.history.recordErr = errors.New("disk full")

	out, err := f.svc.Search(context.Background(), "Durban")
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, out.Phase)
}

func TestService_SelectHistory(t *testing.T) {
	f := newFixture(t, true, Options{})

	_, err := f.svc.Search(context.Background(), "Durban")
	require.NoError(t, err)

	out, err := f.svc.SelectHistory(context.Background(), f.svc.History()[0].City)
	require.NoError(t, err)

	assert.Equal(t, TriggerHistory, out.Trigger)
	assert.Len(t, f.svc.History(), 1)
	assert.Equal(t, []string{"search:done", "history:done"}, f.metrics.outcomes)
}

func TestService_ClearHistory(t *testing.T) {
	f := newFixture(t, true, Options{})
	f.geo.places["Cape Town"] = Place{Name: "Cape Town", Country: "ZA", Latitude: -33.92, Longitude: 18.42}
	f.geo.places["Paris"] = Place{Name: "Paris", Country: "FR", Latitude: 48.85, Longitude: 2.35}

	for _, city := range []string{"Durban", "Cape Town", "Paris"} {
		_, err := f.svc.Search(context.Background(), city)
		require.NoError(t, err)
	}
	require.Len(t, f.svc.History(), 3)
	assert.Equal(t, "Paris", f.svc.History()[0].City)

	require.NoError(t, f.svc.ClearHistory())
	assert.Empty(t, f.svc.History())
	assert.Zero(t, f.metrics.size)
}

func TestService_LookupCoordinates(t *testing.T) {
	f := newFixture(t, true, Options{})
	f.geo.reversePlace = &Place{Name: "Pinetown", Country: "ZA"}

	out, err := f.svc.LookupCoordinates(context.Background(), -29.81, 30.86)
	require.NoError(t, err)

	assert.Equal(t, TriggerGeolocation, out.Trigger)
	assert.Equal(t, Place{Name: "Pinetown", Country: "ZA", Latitude: -29.81, Longitude: 30.86}, out.Report.Place)
	assert.Equal(t, [][2]float64{{-29.81, 30.86}}, f.source.requests)
	assert.Equal(t, "Weather for Pinetown loaded", f.state.Snapshot().Notification.Message)
}

func TestService_LookupCoordinatesUnnamedPlace(t *testing.T) {
	f := newFixture(t, true, Options{})

	out, err := f.svc.LookupCoordinates(context.Background(), -29.81, 30.86)
	require.NoError(t, err)

	assert.Equal(t, "Your location", out.Report.Place.Name)
	assert.Empty(t, out.Report.Place.Country)
	assert.Equal(t, "Your location", f.svc.History()[0].City)
}

func TestService_LookupCoordinatesFailsSilently(t *testing.T) {
	tests := []struct {
		name   string
		online bool
		setup  func(f serviceFixture)
	}{
		{"reverse transport error", true, func(f serviceFixture) {
			f.geo.reverseErr = &TransportError{Op: "geocode reverse", Err: errors.New("refused")}
		}},
		{"forecast error", true, func(f serviceFixture) {
			f.source.err = &TransportError{Op: "forecast", Err: errors.New("refused")}
		}},
		{"offline", false, func(serviceFixture) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.online, Options{})
			tt.setup(f)

			out, err := f.svc.LookupCoordinates(context.Background(), 1, 2)
			require.Error(t, err)

			assert.Equal(t, PhaseFailed, out.Phase)
			assert.Nil(t, out.Notification)
			snap := f.state.Snapshot()
			assert.Nil(t, snap.Notification)
			assert.False(t, snap.Loading)
			assert.Empty(t, f.svc.History())
		})
	}
}

func TestService_AutoLocate(t *testing.T) {
	f := newFixture(t, true, Options{})

	assert.False(t, f.svc.AutoLocate(context.Background(), StaticLocator{}, time.Second))
	assert.Zero(t, f.geo.calls())

	lat, lon := -29.85, 31.02
	assert.True(t, f.svc.AutoLocate(context.Background(), StaticLocator{Latitude: &lat, Longitude: &lon}, time.Second))
	assert.Equal(t, 1, f.source.calls())
}

func TestService_OverlappingLookupsBothRecord(t *testing.T) {
	f := newFixture(t, true, Options{})
	f.geo.places["Paris"] = Place{Name: "Paris", Country: "FR", Latitude: 48.85, Longitude: 2.35}

	done := make(chan struct{}, 2)
	for _, city := range []string{"Durban", "Paris"} {
		go func(city string) {
			_, _ = f.svc.Search(context.Background(), city)
			done <- struct{}{}
		}(city)
	}
	<-done
	<-done

	assert.Len(t, f.svc.History(), 2)
	snap := f.state.Snapshot()
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.Report)
	assert.Contains(t, []string{"Durban", "Paris"}, snap.Report.Place.Name)
}
