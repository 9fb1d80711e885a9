package tui

import (
	"context"
	"sync"

	"github.com/dset/arsavings/internal/composer"
	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/finance"
	"github.com/dset/arsavings/internal/params"
	"github.com/dset/arsavings/internal/pipeline"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/scene"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// ComposerMsg signals that the composer published something new. The app
// reads the latest state from the session when it arrives.
type ComposerMsg struct{}

// session runs a composer in the background and coalesces its callbacks
// into at most one pending ComposerMsg.
type session struct {
	store *params.Store
	cache *resource.Cache
	log   *zap.Logger

	notify chan struct{}

	mu          sync.Mutex
	comp        *composer.Composer
	cancel      context.CancelFunc
	done        chan struct{}
	failures    int
	lastFailure string
}

func newSession(store *params.Store, catalog *pipeline.Catalog, assets config.AssetsConfig, log *zap.Logger) *session {
	return &session{
		store:  store,
		cache:  resource.NewCache(pipeline.NewResourceLoader(catalog, assets)),
		log:    log,
		notify: make(chan struct{}, 1),
	}
}

func (s *session) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *session) sink() composer.Sink {
	return composer.SinkFuncs{
		OnScene: func(*scene.Node) { s.signal() },
		OnTotal: func(int64) { s.signal() },
		OnLoadFailed: func(p resource.Purpose, err error) {
			s.mu.Lock()
			s.failures++
			s.lastFailure = string(p) + ": " + err.Error()
			s.mu.Unlock()
			s.signal()
		},
	}
}

// start replaces any running composer with a fresh one built from cfg. The
// store and resource cache carry over, so the new composer picks up the
// current inputs and placement immediately.
func (s *session) start(cfg config.Config, label func(int64) string) {
	s.stop()

	comp := composer.New(s.store, s.cache, composer.Options{
		Projector: finance.New(cfg.Finance.AnnualRate),
		Geometry:  cfg.Geometry,
		Assets:    cfg.Assets,
		Sink:      s.sink(),
		Logger:    s.log,
		Formatter: label,
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.comp, s.cancel, s.done = comp, cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if err := comp.Run(ctx); err != nil {
			s.log.Error("composer stopped", zap.Error(err))
		}
	}()
}

// stop cancels the running composer and waits for it to tear down.
func (s *session) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// close stops the composer and abandons in-flight resource loads.
func (s *session) close() {
	s.stop()
	s.cache.Close()
}

// snapshot is the session state the views render from.
type snapshot struct {
	root        *scene.Node
	state       composer.State
	total       int64
	hasTotal    bool
	loads       int64
	failures    int
	lastFailure string
}

func (s *session) snapshot() snapshot {
	s.mu.Lock()
	comp := s.comp
	snap := snapshot{failures: s.failures, lastFailure: s.lastFailure}
	s.mu.Unlock()

	snap.loads = s.cache.Loads()
	if comp == nil {
		return snap
	}
	snap.root = comp.Scene()
	snap.state = comp.State()
	snap.total, snap.hasTotal = comp.Total()
	return snap
}

// waitForComposer blocks until the composer publishes again.
func waitForComposer(s *session) tea.Cmd {
	return func() tea.Msg {
		<-s.notify
		return ComposerMsg{}
	}
}
