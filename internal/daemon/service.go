// Package daemon serves the subscription analytics over HTTP and watches
// the store for changes made by other processes.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
	"github.com/theirongolddev/subtrack/internal/state"
)

// Source is where the service reads the collection from. *store.Store
// satisfies it.
type Source interface {
	Load() (model.Snapshot, error)
	Revision() (int64, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Addr           string
	Interval       time.Duration
	EventsBuffer   int
	ForecastMonths int
	UpcomingDays   int
	Locale         string
	Budget         *float64

	Logger *slog.Logger
	Clock  func() time.Time
}

// Snapshot is a compact collection state for status/event payloads.
type Snapshot struct {
	At              time.Time         `json:"at"`
	Revision        int64             `json:"revision"`
	Active          int               `json:"active"`
	Archived        int               `json:"archived"`
	MonthlyTotal    float64           `json:"monthly_equivalent"`
	MonthlyForecast float64           `json:"monthly_forecast"`
	Next            model.NextPayment `json:"next_payment"`
	Tiers           model.TierTally   `json:"tiers"`
}

// Delta captures what moved between two polls.
type Delta struct {
	Active       int     `json:"active"`
	Archived     int     `json:"archived"`
	MonthlyTotal float64 `json:"monthly_equivalent"`
	Collection   bool    `json:"collection"`
	Due          bool    `json:"due"`
}

func (d Delta) isZero() bool {
	return !d.Collection && !d.Due
}

// Event is emitted whenever the collection or its due state changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventChanged  = "collection_changed"
	EventDue      = "due_changed"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	src    Source
	coll   *state.Container
	log    *slog.Logger
	locale language.Tag

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from src.
func New(src Source, cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.ForecastMonths < 1 {
		cfg.ForecastMonths = 6
	}
	if cfg.UpcomingDays < 1 {
		cfg.UpcomingDays = 7
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		locale = language.Und
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		coll:      state.New(model.Snapshot{}),
		log:       cfg.Logger,
		locale:    locale,
		startedAt: cfg.Clock(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("GET /v1/subscriptions", s.handleSubscriptions)
	mux.HandleFunc("GET /v1/folders", s.handleFolders)
	mux.HandleFunc("GET /v1/countdowns", s.handleCountdowns)
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/calendar", s.handleCalendar)
	mux.HandleFunc("GET /v1/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /v1/lifetime", s.handleLifetime)
	mux.HandleFunc("GET /v1/savings", s.handleSavings)
	mux.HandleFunc("GET /v1/trend", s.handleTrend)
	mux.HandleFunc("GET /v1/budget", s.handleBudget)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("subtrack daemon listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) today() model.Date {
	return model.DateOf(s.cfg.Clock())
}

// pollOnce reloads the collection when the store revision moved and
// publishes an event when either the collection or its due state changed.
func (s *Service) pollOnce() {
	now := s.cfg.Clock()

	rev, err := s.src.Revision()
	if err == nil {
		s.mu.RLock()
		stale := !s.hasSnapshot || rev != s.snapshot.Revision
		s.mu.RUnlock()
		if stale {
			err = s.reload()
		}
	}
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error("daemon poll failed", "err", err)
		return
	}

	snap := snapshotOf(s.coll.Subscriptions(), model.DateOf(now), rev, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		typ := EventDue
		if delta.Collection {
			typ = EventChanged
		}
		ev = Event{ID: s.nextEventID, Type: typ, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug("daemon event", "type", ev.Type, "revision", snap.Revision)
		s.publishEvent(ev)
	}
}

func (s *Service) reload() error {
	snap, err := s.src.Load()
	if err != nil {
		return fmt.Errorf("loading collection: %w", err)
	}
	if _, err := s.coll.Dispatch(state.Load{Snapshot: snap}); err != nil {
		return fmt.Errorf("loading collection: %w", err)
	}
	return nil
}

func snapshotOf(subs []model.Subscription, today model.Date, rev int64, at time.Time) Snapshot {
	active := model.Active(subs)
	return Snapshot{
		At:              at,
		Revision:        rev,
		Active:          len(active),
		Archived:        len(subs) - len(active),
		MonthlyTotal:    pipeline.TotalMonthlyEquivalent(active),
		MonthlyForecast: pipeline.MonthlyForecast(active, today),
		Next:            pipeline.NextPayment(active, today),
		Tiers:           countdown.Tally(active, today),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Active:       curr.Active - prev.Active,
		Archived:     curr.Archived - prev.Archived,
		MonthlyTotal: curr.MonthlyTotal - prev.MonthlyTotal,
		Collection:   curr.Revision != prev.Revision,
		Due:          !curr.Next.Date.Equal(prev.Next.Date) || curr.Tiers != prev.Tiers,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.coll.Snapshot()
	writeJSON(w, pipeline.Summarize(snap.Subscriptions, snap.Folders, s.today()))
}

func (s *Service) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := pipeline.Query{
		Search:   q.Get("q"),
		Tags:     q["tag"],
		FolderID: q.Get("folder"),
	}
	switch q.Get("archived") {
	case "", "false":
	case "true":
		query.Archived = true
	case "all":
		query.AnyState = true
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("archived must be true, false or all"))
		return
	}

	by := s.coll.Sort()
	if v := q.Get("sort"); v != "" {
		field, err := model.ParseSortField(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		by.Field = field
	}
	if v := q.Get("dir"); v != "" {
		by.Direction = model.SortDirection(strings.ToLower(v))
	}
	if err := by.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	today := s.today()
	subs := pipeline.SortLocale(pipeline.Filter(s.coll.Subscriptions(), query), by, today, s.locale)

	type item struct {
		model.Subscription
		NextDue   model.Date      `json:"nextDue"`
		Countdown model.Countdown `json:"countdown"`
		Monthly   float64         `json:"monthlyEquivalent"`
	}
	out := make([]item, 0, len(subs))
	for _, sub := range subs {
		c := countdown.For(sub, today)
		out = append(out, item{Subscription: sub, NextDue: c.NextDue, Countdown: c, Monthly: pipeline.MonthlyEquivalent(sub)})
	}
	writeJSON(w, out)
}

func (s *Service) handleFolders(w http.ResponseWriter, r *http.Request) {
	snap := s.coll.Snapshot()
	folders := pipeline.SearchFolders(snap.Folders, r.URL.Query().Get("q"))
	writeJSON(w, pipeline.FolderOverview(snap.Subscriptions, folders, s.today()))
}

func (s *Service) handleCountdowns(w http.ResponseWriter, r *http.Request) {
	days := s.cfg.UpcomingDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("days must be a non-negative integer"))
			return
		}
		days = n
	}
	writeJSON(w, countdown.Within(model.Active(s.coll.Subscriptions()), s.today(), days))
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	months := s.cfg.ForecastMonths
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("months: %w", err))
			return
		}
		months = n
	}
	active := model.Active(s.coll.Subscriptions())
	today := s.today()
	writeJSON(w, map[string]any{
		"monthly": pipeline.MonthlyForecast(active, today),
		"yearly":  pipeline.YearlyForecast(active, today),
		"series":  pipeline.ForecastSeries(active, today, months),
	})
}

func (s *Service) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	year, month := today.Year(), today.Month()
	if v := r.URL.Query().Get("month"); v != "" {
		t, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("month must be YYYY-MM"))
			return
		}
		year, month = t.Year(), t.Month()
	}
	writeJSON(w, pipeline.RenewalCalendar(s.coll.Subscriptions(), today, year, month))
}

func (s *Service) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	snap := s.coll.Snapshot()
	switch by := r.URL.Query().Get("by"); by {
	case "", "folder":
		writeJSON(w, pipeline.BreakdownByFolder(snap.Subscriptions, snap.Folders))
	case "tag":
		writeJSON(w, pipeline.BreakdownByTag(snap.Subscriptions))
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown breakdown %q (want folder or tag)", by))
	}
}

func (s *Service) handleLifetime(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, pipeline.Lifetime(s.coll.Subscriptions()))
}

func (s *Service) handleSavings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, pipeline.Savings(s.coll.Subscriptions()))
}

func (s *Service) handleTrend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, pipeline.SpendingTrend(s.coll.Subscriptions(), s.today()))
}

func (s *Service) handleBudget(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Budget == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no monthly budget configured"))
		return
	}
	writeJSON(w, pipeline.Budget(s.coll.Subscriptions(), *s.cfg.Budget))
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Clock(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
