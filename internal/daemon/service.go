// Package daemon hosts a composer behind an HTTP API and an SSE event stream.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dset/arsavings/internal/composer"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/params"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/scene"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// Event types.
const (
	EventScene      = "scene"
	EventTotal      = "total"
	EventLoadFailed = "load_failed"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Logger       *zap.Logger
}

// Event is emitted for every composer callback.
type Event struct {
	ID        int64     `json:"id"`
	Session   uuid.UUID `json:"session"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Total     *int64    `json:"total,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	State     string    `json:"state,omitempty"`
	Nodes     int       `json:"nodes,omitempty"`
	Purpose   string    `json:"purpose,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	Session         uuid.UUID        `json:"session"`
	StartedAt       time.Time        `json:"started_at"`
	Addr            string           `json:"addr"`
	State           string           `json:"state"`
	Mode            string           `json:"mode"`
	Params          model.Parameters `json:"params"`
	Total           *int64           `json:"total,omitempty"`
	Placed          bool             `json:"placed"`
	ResourceLoads   int64            `json:"resource_loads"`
	LoadFailures    int              `json:"load_failures"`
	LastError       string           `json:"last_error,omitempty"`
	EventCount      int              `json:"event_count"`
	SubscriberCount int              `json:"subscriber_count"`
}

// Service owns a composer and exposes its inputs and outputs over HTTP.
type Service struct {
	cfg     Config
	log     *zap.Logger
	store   *params.Store
	cache   *resource.Cache
	comp    *composer.Composer
	session uuid.UUID

	mu           sync.RWMutex
	startedAt    time.Time
	loadFailures int
	lastError    string
	nextEventID  int64
	events       []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service with the provided config. The composer is
// built from opts with the service installed as its sink.
func New(cfg Config, store *params.Store, cache *resource.Cache, opts composer.Options) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Service{
		cfg:       cfg,
		log:       cfg.Logger.Named("daemon"),
		store:     store,
		cache:     cache,
		session:   uuid.New(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	opts.Sink = s
	if opts.Logger == nil {
		opts.Logger = cfg.Logger.Named("composer")
	}
	s.comp = composer.New(store, cache, opts)
	return s
}

// Composer returns the hosted composer.
func (s *Service) Composer() *composer.Composer { return s.comp }

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/scene", s.handleScene)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("POST /v1/params", s.handleParams)
	mux.HandleFunc("POST /v1/mode", s.handleMode)
	mux.HandleFunc("POST /v1/tap", s.handleTap)
	return mux
}

// Run starts the composer and the HTTP endpoints until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		return s.comp.Run(gctx)
	})
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.Stringer("session", s.session))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// SceneUpdated implements composer.Sink.
func (s *Service) SceneUpdated(root *scene.Node) {
	s.publishEvent(Event{
		Type:  EventScene,
		Mode:  s.comp.Mode().String(),
		State: s.comp.State().String(),
		Nodes: root.Count(),
	})
}

// TotalSavingsUpdated implements composer.Sink.
func (s *Service) TotalSavingsUpdated(total int64) {
	s.publishEvent(Event{Type: EventTotal, Total: &total})
}

// LoadFailed implements composer.Sink.
func (s *Service) LoadFailed(purpose resource.Purpose, err error) {
	s.mu.Lock()
	s.loadFailures++
	s.lastError = err.Error()
	s.mu.Unlock()

	s.publishEvent(Event{Type: EventLoadFailed, Purpose: string(purpose), Error: err.Error()})
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	ev.Session = s.session
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

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
	st := Status{
		Session:       s.session,
		StartedAt:     s.startedAt,
		Addr:          s.cfg.Addr,
		State:         s.comp.State().String(),
		Mode:          s.store.CurrentMode().String(),
		Params:        s.store.Snapshot(),
		ResourceLoads: s.cache.Loads(),
	}
	if total, ok := s.comp.Total(); ok {
		st.Total = &total
	}
	_, st.Placed = s.store.Placement.Get()

	s.mu.RLock()
	defer s.mu.RUnlock()
	st.LoadFailures = s.loadFailures
	st.LastError = s.lastError
	st.EventCount = len(s.events)
	st.SubscriberCount = len(s.subs)
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleScene(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.comp.Scene())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

// paramsRequest carries a partial parameter update; absent fields keep
// their current value.
type paramsRequest struct {
	MonthlySavings *int64 `json:"monthly_savings"`
	StartAmount    *int64 `json:"start_amount"`
	DurationYears  *int64 `json:"duration_years"`
}

func (s *Service) handleParams(w http.ResponseWriter, r *http.Request) {
	var req paramsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid params body: "+err.Error(), http.StatusBadRequest)
		return
	}

	p := s.store.Snapshot()
	if req.MonthlySavings != nil {
		p.MonthlySavings = *req.MonthlySavings
	}
	if req.StartAmount != nil {
		p.StartAmount = *req.StartAmount
	}
	if req.DurationYears != nil {
		p.DurationYears = *req.DurationYears
	}
	if err := s.store.Apply(p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.log.Debug("params updated",
		zap.Int64("monthly_savings", p.MonthlySavings),
		zap.Int64("start_amount", p.StartAmount),
		zap.Int64("duration_years", p.DurationYears),
	)
	writeJSON(w, http.StatusOK, p)
}

type modeRequest struct {
	Mode model.Mode `json:"mode"`
}

func (s *Service) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid mode body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.SetMode(req.Mode); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.log.Debug("mode selected", zap.Stringer("mode", req.Mode))
	writeJSON(w, http.StatusOK, req)
}

// tapRequest is a placement in world space. Rotation is a unit quaternion
// ordered [w, x, y, z]; an absent rotation means unrotated.
type tapRequest struct {
	Position [3]float64  `json:"position"`
	Rotation *[4]float64 `json:"rotation,omitempty"`
}

func (t tapRequest) transform() model.AnchorTransform {
	at := model.NewAnchorTransform(r3.Vec{X: t.Position[0], Y: t.Position[1], Z: t.Position[2]})
	if q := t.Rotation; q != nil && *q != ([4]float64{}) {
		at.Rotation.Real = q[0]
		at.Rotation.Imag = q[1]
		at.Rotation.Jmag = q[2]
		at.Rotation.Kmag = q[3]
	}
	return at
}

func (s *Service) handleTap(w http.ResponseWriter, r *http.Request) {
	var req tapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid tap body: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.store.Tap(req.transform())

	s.log.Debug("tap", zap.Float64s("position", req.Position[:]))
	w.WriteHeader(http.StatusAccepted)
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

	// Send the current scene summary immediately.
	current := Event{
		Session:   s.session,
		Type:      EventScene,
		Timestamp: time.Now(),
		Mode:      s.comp.Mode().String(),
		State:     s.comp.State().String(),
		Nodes:     s.comp.Scene().Count(),
	}
	if total, ok := s.comp.Total(); ok {
		current.Total = &total
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
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
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
