// Package composer joins the parameter cells, the projector, the layout and
// reveal planners and the resource cache into a scene graph that is rebuilt
// whenever any input changes. All scene mutation happens on the goroutine
// running Run.
package composer

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/finance"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/params"
	"github.com/dset/arsavings/internal/reactive"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/scene"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("composer already running")

// State is the composer's position in the placement lifecycle.
type State int32

const (
	// Idle means no anchor has been placed.
	Idle State = iota
	// Composing means an anchor exists but its subtree is not attached yet.
	Composing
	// Composed means the anchor carries a complete subtree.
	Composed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	case Composed:
		return "composed"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Sink receives the composer's outbound events. Calls are made from the Run
// goroutine and must not block for long.
type Sink interface {
	SceneUpdated(root *scene.Node)
	TotalSavingsUpdated(total int64)
	LoadFailed(purpose resource.Purpose, err error)
}

// SinkFuncs adapts optional functions to Sink.
type SinkFuncs struct {
	OnScene      func(root *scene.Node)
	OnTotal      func(total int64)
	OnLoadFailed func(purpose resource.Purpose, err error)
}

func (f SinkFuncs) SceneUpdated(root *scene.Node) {
	if f.OnScene != nil {
		f.OnScene(root)
	}
}

func (f SinkFuncs) TotalSavingsUpdated(total int64) {
	if f.OnTotal != nil {
		f.OnTotal(total)
	}
}

func (f SinkFuncs) LoadFailed(purpose resource.Purpose, err error) {
	if f.OnLoadFailed != nil {
		f.OnLoadFailed(purpose, err)
	}
}

// Options configures a Composer. Zero fields take defaults.
type Options struct {
	Projector finance.Projector
	Geometry  config.Geometry
	Assets    config.AssetsConfig
	Sink      Sink
	Logger    *zap.Logger
	// Formatter renders the total for the label. Defaults to plain digits.
	Formatter func(total int64) string
}

type loadDone struct {
	gen uint64
	err error
}

// Composer owns the scene root and rebuilds the anchor's subtree on every
// input change.
type Composer struct {
	store  *params.Store
	cache  *resource.Cache
	opts   Options
	log    *zap.Logger
	tracer trace.Tracer

	started atomic.Bool
	wg      sync.WaitGroup

	// Written only by the Run goroutine, read by anyone under mu.
	mu       sync.RWMutex
	state    State
	total    int64
	hasTotal bool
	mode     model.Mode
	snapshot *scene.Node

	// Owned by the Run goroutine.
	root       *scene.Node
	anchor     *scene.Anchor
	content    *scene.Node
	gen        uint64
	modeCtx    context.Context
	modeCancel context.CancelFunc
	loading    bool
	loadingGen uint64
	done       chan loadDone
}

// New returns a composer over store and cache. Nothing happens until Run.
func New(store *params.Store, cache *resource.Cache, opts Options) *Composer {
	if opts.Geometry == (config.Geometry{}) {
		opts.Geometry = config.DefaultGeometry()
	}
	if opts.Assets == (config.AssetsConfig{}) {
		opts.Assets = config.DefaultAssets()
	}
	if opts.Sink == nil {
		opts.Sink = SinkFuncs{}
	}
	if opts.Formatter == nil {
		opts.Formatter = func(v int64) string { return strconv.FormatInt(v, 10) }
	}
	root := scene.NewNode("root")
	return &Composer{
		store:    store,
		cache:    cache,
		opts:     opts,
		log:      opts.Logger,
		tracer:   otel.Tracer("github.com/dset/arsavings/internal/composer"),
		root:     root,
		snapshot: root.Clone(),
		done:     make(chan loadDone),
	}
}

// State returns the current lifecycle state.
func (c *Composer) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Total returns the latest projected total, if one has been computed.
func (c *Composer) Total() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total, c.hasTotal
}

// Mode returns the mode the scene is being composed for.
func (c *Composer) Mode() model.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Scene returns the most recently published scene. The tree is shared with
// the sink and must not be modified.
func (c *Composer) Scene() *scene.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Run subscribes to the store and mutates the scene until ctx is done. On
// return every subscription is closed and every load the composer was
// waiting on is abandoned; later input changes are ignored.
func (c *Composer) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer c.teardown(cancel)

	s := c.store
	totals := reactive.CombineLatest3(ctx,
		s.MonthlySavings.Subscribe(ctx),
		s.StartAmount.Subscribe(ctx),
		s.DurationYears.Subscribe(ctx),
		c.opts.Projector.Project,
	)
	modes := s.Mode.Subscribe(ctx)
	taps := s.Placement.Subscribe(ctx)

	c.setMode(s.CurrentMode())
	c.modeCtx, c.modeCancel = context.WithCancel(ctx)

	c.log.Debug("composer started", zap.Stringer("mode", c.mode))

	for {
		select {
		case <-ctx.Done():
			return nil
		case total, ok := <-totals:
			if !ok {
				return nil
			}
			c.onTotal(ctx, total)
		case m, ok := <-modes:
			if !ok {
				return nil
			}
			c.onMode(ctx, m)
		case t, ok := <-taps:
			if !ok {
				return nil
			}
			c.onTap(ctx, t)
		case d := <-c.done:
			c.onLoaded(ctx, d)
		}
	}
}

func (c *Composer) teardown(cancel context.CancelFunc) {
	cancel()
	c.modeCancel()
	c.wg.Wait()

	if c.anchor != nil {
		c.anchor.Clear()
		c.anchor, c.content = nil, nil
	}
	c.setState(Idle)
	c.log.Debug("composer stopped")
}

func (c *Composer) onTotal(ctx context.Context, total int64) {
	c.mu.Lock()
	c.total, c.hasTotal = total, true
	c.mu.Unlock()

	c.opts.Sink.TotalSavingsUpdated(total)
	c.rebuild(ctx)
}

// onMode cancels the previous mode's pending work and drops its subtree.
func (c *Composer) onMode(ctx context.Context, m model.Mode) {
	if m == c.mode {
		return
	}
	c.modeCancel()
	c.gen++
	c.setMode(m)
	c.modeCtx, c.modeCancel = context.WithCancel(ctx)
	c.loading = false

	c.log.Debug("mode changed", zap.Stringer("mode", m), zap.Uint64("gen", c.gen))

	cleared := false
	if c.content != nil {
		c.content.Clear()
		c.content = nil
		c.setState(Composing)
		cleared = true
	}
	if !c.rebuild(ctx) && cleared {
		c.publish()
	}
}

// onTap replaces the anchor. The old anchor's subtree is destroyed before
// the new anchor is attached.
func (c *Composer) onTap(ctx context.Context, t model.AnchorTransform) {
	if c.anchor != nil {
		c.anchor.Clear()
		c.content = nil
	}
	c.anchor = scene.NewAnchor(t)
	if err := c.root.AddChild(c.anchor.Node); err != nil {
		c.log.Error("attaching anchor", zap.Error(err))
		return
	}
	c.setState(Composing)

	c.log.Debug("anchor placed", zap.Stringer("anchor", c.anchor.ID))

	if !c.rebuild(ctx) {
		c.publish()
	}
}

func (c *Composer) onLoaded(ctx context.Context, d loadDone) {
	if d.gen != c.gen {
		return
	}
	c.loading = false
	if d.err != nil {
		c.reportFailure(d.err)
		return
	}
	c.rebuild(ctx)
}

func (c *Composer) reportFailure(err error) {
	var le *resource.LoadError
	if !errors.As(err, &le) {
		c.log.Warn("resource load aborted", zap.Error(err))
		return
	}
	c.log.Warn("resource load failed",
		zap.String("purpose", string(le.Purpose)),
		zap.Error(le.Err),
	)
	c.opts.Sink.LoadFailed(le.Purpose, le.Err)
}

// request starts loading whatever the current mode is missing, unless a load
// for this generation is already in flight.
func (c *Composer) request(ctx context.Context, missing []resource.Purpose) {
	if c.loading && c.loadingGen == c.gen {
		return
	}
	c.loading, c.loadingGen = true, c.gen

	gen, mctx := c.gen, c.modeCtx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := c.cache.Preload(mctx, missing...)
		select {
		case c.done <- loadDone{gen: gen, err: err}:
		case <-ctx.Done():
		}
	}()
}

// rebuild replaces the anchor's subtree for the current inputs. It reports
// whether a new scene was published.
func (c *Composer) rebuild(ctx context.Context) bool {
	total, ok := c.Total()
	if !ok {
		return false
	}
	if missing := c.cache.Missing(resource.ForMode(c.mode)...); len(missing) > 0 {
		c.request(ctx, missing)
		return false
	}
	if c.anchor == nil {
		return false
	}

	_, span := c.tracer.Start(ctx, "composer.rebuild", trace.WithAttributes(
		attribute.String("mode", c.mode.String()),
		attribute.Int64("total", total),
	))
	defer span.End()

	sub, err := c.build(c.mode, total)
	if err != nil {
		span.RecordError(err)
		c.log.Error("building subtree", zap.Stringer("mode", c.mode), zap.Error(err))
		return false
	}
	span.SetAttributes(attribute.Int("nodes", sub.Count()))

	if c.content != nil {
		c.content.Clear()
	}
	if err := c.anchor.AddChild(sub); err != nil {
		c.log.Error("attaching subtree", zap.Error(err))
		return false
	}
	c.content = sub
	c.setState(Composed)
	c.publish()
	return true
}

func (c *Composer) publish() {
	snap := c.root.Clone()
	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
	c.opts.Sink.SceneUpdated(snap)
}

func (c *Composer) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Composer) setMode(m model.Mode) {
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
}
