package weather

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Trigger names what started a lookup.
type Trigger string

const (
	TriggerSearch      Trigger = "search"
	TriggerGeolocation Trigger = "geolocation"
	TriggerHistory     Trigger = "history"
)

// Phase is a lookup state. done and failed are terminal.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseResolving   Phase = "resolving"
	PhaseFetching    Phase = "fetching"
	PhaseNormalizing Phase = "normalizing"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// Outcome describes a finished lookup.
type Outcome struct {
	ID           uuid.UUID     `json:"id"`
	Trigger      Trigger       `json:"trigger"`
	Phase        Phase         `json:"phase"`
	Trace        []Phase       `json:"trace"`
	Report       *Report       `json:"report,omitempty"`
	Entry        *HistoryEntry `json:"entry,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	Err          error         `json:"-"`
}

// Options carries the capability flags and test seams of the Service.
type Options struct {
	// ConditionMessages appends the weathercode phrase to the success notification.
	ConditionMessages bool
	// ConditionIcons selects a per-condition icon instead of the static one.
	ConditionIcons bool
	Metrics        Metrics
	Now            func() time.Time
}

// Service orchestrates geocoding, forecast retrieval, normalization and history.
// Lookups are independent: a new one never cancels a pending one, and whichever
// finishes last owns the displayed state.
type Service struct {
	state    *State
	resolver *GeoResolver
	fetcher  *ForecastFetcher
	history  HistoryStore
	metrics  Metrics
	opts     Options
	now      func() time.Time
	logger   zerolog.Logger
}

// NewService creates a new Service.
func NewService(state *State, geocoder Geocoder, source ForecastSource, history HistoryStore, logger zerolog.Logger, opts Options) *Service {
	s := &Service{
		state:    state,
		resolver: NewGeoResolver(geocoder, state),
		fetcher:  NewForecastFetcher(source, state),
		history:  history,
		metrics:  opts.Metrics,
		opts:     opts,
		now:      opts.Now,
		logger:   logger.With().Str("component", "lookup").Logger(),
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.metrics.SetHistorySize(len(history.Entries()))
	return s
}

// State exposes the UI state owned by the service.
func (s *Service) State() *State {
	return s.state
}

// Options returns the capability flags the service was built with.
func (s *Service) Options() Options {
	return s.opts
}

// Search geocodes the text and fetches its weather. Blank text is rejected
// with ErrEmptyQuery without touching the state.
func (s *Service) Search(ctx context.Context, text string) (Outcome, error) {
	return s.search(ctx, TriggerSearch, text)
}

// SelectHistory re-issues a name-based search for a history item.
func (s *Service) SelectHistory(ctx context.Context, city string) (Outcome, error) {
	return s.search(ctx, TriggerHistory, city)
}

func (s *Service) search(ctx context.Context, trigger Trigger, text string) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return Outcome{Trigger: trigger, Phase: PhaseIdle, Err: ErrEmptyQuery}, ErrEmptyQuery
	}

	l := s.begin(trigger, false)
	l.enter(PhaseResolving)
	place, err := s.resolver.Resolve(ctx, text)
	if err != nil {
		return s.fail(l, err)
	}
	return s.fetchAndRecord(ctx, l, place)
}

// LookupCoordinates runs the geolocation path: the place is named by reverse
// geocoding, then the forecast is fetched for the given coordinates. Every
// failure is silent: the loading flag is cleared but no notification is set.
func (s *Service) LookupCoordinates(ctx context.Context, lat, lon float64) (Outcome, error) {
	l := s.begin(TriggerGeolocation, true)
	l.enter(PhaseResolving)

	place, err := s.resolver.ReverseResolve(ctx, lat, lon)
	switch {
	case errors.Is(err, ErrNotFound):
		place = Place{Name: "Your location"}
	case err != nil:
		return s.fail(l, err)
	}
	place.Latitude, place.Longitude = lat, lon

	return s.fetchAndRecord(ctx, l, place)
}

// History returns the recorded lookups, most recent first.
func (s *Service) History() []HistoryEntry {
	return s.history.Entries()
}

// ClearHistory erases the persisted history.
func (s *Service) ClearHistory() error {
	if err := s.history.Clear(); err != nil {
		return err
	}
	s.metrics.SetHistorySize(0)
	return nil
}

func (s *Service) fetchAndRecord(ctx context.Context, l *lookup, place Place) (Outcome, error) {
	l.enter(PhaseFetching)
	fc, err := s.fetcher.Fetch(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return s.fail(l, err)
	}

	l.enter(PhaseNormalizing)
	report := Normalize(place, fc)
	entry := report.HistoryEntry(s.now())
	if err := s.history.Record(entry); err != nil {
		l.logger.Warn().Err(err).Msg("history not persisted")
	}
	s.metrics.SetHistorySize(len(s.history.Entries()))

	l.enter(PhaseDone)
	n := &Notification{Message: s.successMessage(report), Severity: SeveritySuccess}
	s.state.finishLookup(&report, n)
	s.metrics.ObserveLookup(string(l.trigger), string(PhaseDone), time.Since(l.started))

	return Outcome{
		ID:           l.id,
		Trigger:      l.trigger,
		Phase:        PhaseDone,
		Trace:        l.trace,
		Report:       &report,
		Entry:        &entry,
		Notification: n,
	}, nil
}

func (s *Service) fail(l *lookup, err error) (Outcome, error) {
	l.enter(PhaseFailed)
	l.logger.Debug().Err(err).Msg("lookup failed")

	var n *Notification
	if !l.silent {
		n = &Notification{Message: UserMessage(err), Severity: SeverityError}
	}
	s.state.finishLookup(nil, n)
	s.metrics.ObserveLookup(string(l.trigger), string(PhaseFailed), time.Since(l.started))

	return Outcome{
		ID:           l.id,
		Trigger:      l.trigger,
		Phase:        PhaseFailed,
		Trace:        l.trace,
		Notification: n,
		Err:          err,
	}, err
}

func (s *Service) successMessage(r Report) string {
	msg := "Weather for " + r.Place.Name + " loaded"
	if !s.opts.ConditionMessages {
		return msg
	}
	if phrase := r.Condition.Phrase(); phrase != "" {
		msg += ". " + phrase
	}
	return msg
}

type lookup struct {
	id      uuid.UUID
	trigger Trigger
	silent  bool
	trace   []Phase
	started time.Time
	logger  zerolog.Logger
}

func (s *Service) begin(trigger Trigger, silent bool) *lookup {
	id := uuid.New()
	l := &lookup{
		id:      id,
		trigger: trigger,
		silent:  silent,
		trace:   []Phase{PhaseIdle},
		started: time.Now(),
		logger: s.logger.With().
			Str("lookup_id", id.String()).
			Str("trigger", string(trigger)).
			Logger(),
	}
	s.state.beginLookup()
	return l
}

func (l *lookup) enter(p Phase) {
	l.trace = append(l.trace, p)
	l.logger.Debug().Str("phase", string(p)).Msg("lookup transition")
}
