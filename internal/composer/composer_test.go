package composer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/finance"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/params"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/scene"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waitFor = 2 * time.Second

// stubLoader returns simple resources, with optional per-purpose hooks.
type stubLoader struct {
	hooks map[resource.Purpose]func(ctx context.Context) error
}

func (l *stubLoader) Load(ctx context.Context, p resource.Purpose) (any, error) {
	if hook := l.hooks[p]; hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}
	switch p {
	case resource.LabelSurface:
		return &scene.TextSurface{Name: "label"}, nil
	case resource.CarModel, resource.HomeModel:
		m := &scene.Model{Name: string(p)}
		for i := range 24 {
			m.Submeshes = append(m.Submeshes, scene.Submesh{Material: &scene.Material{Name: string(rune('a' + i))}})
		}
		return m, nil
	default:
		return &scene.Material{Name: string(p)}, nil
	}
}

type recordingSink struct {
	mu       sync.Mutex
	scenes   []*scene.Node
	totals   []int64
	failures []resource.Purpose
}

func (s *recordingSink) SceneUpdated(root *scene.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes = append(s.scenes, root)
}

func (s *recordingSink) TotalSavingsUpdated(total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = append(s.totals, total)
}

func (s *recordingSink) LoadFailed(p resource.Purpose, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, p)
}

func (s *recordingSink) sceneCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scenes)
}

func (s *recordingSink) failureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures)
}

type harness struct {
	store    *params.Store
	cache    *resource.Cache
	sink     *recordingSink
	composer *Composer
	stop     func() error
}

// start runs a composer with a zero-rate projector, so the total is
// start + 12*monthly*years.
func start(t *testing.T, loader resource.Loader) *harness {
	t.Helper()

	h := &harness{
		store: params.NewStore(),
		cache: resource.NewCache(loader),
		sink:  &recordingSink{},
	}
	h.composer = New(h.store, h.cache, Options{
		Projector: finance.New(0),
		Geometry:  config.DefaultGeometry(),
		Assets:    config.DefaultAssets(),
		Sink:      h.sink,
		Logger:    zaptest.NewLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.composer.Run(ctx) }()

	var once sync.Once
	var runErr error
	h.stop = func() error {
		once.Do(func() {
			cancel()
			runErr = <-errc
			h.cache.Close()
		})
		return runErr
	}
	t.Cleanup(func() { _ = h.stop() })
	return h
}

func (h *harness) waitState(t *testing.T, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return h.composer.State() == want },
		waitFor, time.Millisecond, "state never reached %s (at %s)", want, h.composer.State())
}

// contentOf returns the subtree under the first anchor of root, or nil.
func contentOf(root *scene.Node) *scene.Node {
	anchors := root.Children()
	if len(anchors) == 0 {
		return nil
	}
	kids := anchors[0].Children()
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}

// waitContent waits for a published subtree satisfying ok and returns it.
func (h *harness) waitContent(t *testing.T, ok func(*scene.Node) bool) *scene.Node {
	t.Helper()
	var got *scene.Node
	require.Eventually(t, func() bool {
		got = contentOf(h.composer.Scene())
		return got != nil && ok(got)
	}, waitFor, time.Millisecond)
	return got
}

// waitLabel waits until the published label shows text under a subtree
// named name.
func (h *harness) waitLabel(t *testing.T, name, text string) *scene.Node {
	t.Helper()
	return h.waitContent(t, func(n *scene.Node) bool {
		label := n.Find("label")
		return n.Name == name && label != nil && label.Renderable.(scene.Label).Text == text
	})
}

func tap(h *harness, x float64) {
	h.store.Tap(model.NewAnchorTransform(r3.Vec{X: x}))
}

func TestComposer_IdleUntilTap(t *testing.T) {
	h := start(t, &stubLoader{})

	require.NoError(t, h.store.Apply(model.Parameters{MonthlySavings: 100, StartAmount: 1_000, DurationYears: 2}))
	require.Eventually(t, func() bool {
		total, ok := h.composer.Total()
		return ok && total == 3_400
	}, waitFor, time.Millisecond)

	require.Equal(t, Idle, h.composer.State())
	require.Zero(t, h.composer.Scene().Len())
}

func TestComposer_TapBuildsCashScene(t *testing.T) {
	h := start(t, &stubLoader{})
	require.NoError(t, h.store.SetStartAmount(12_345))
	tap(h, 1)

	content := h.waitLabel(t, "cash", "12345")
	require.Equal(t, Composed, h.composer.State())

	pile := content.Find("pile-0")
	require.NotNil(t, pile)
	require.Nil(t, content.Find("pile-1"))

	base := pile.Find("base")
	cube := base.Renderable.(scene.Cube)
	require.InDelta(t, 0.015375, cube.Height, 1e-12)
	require.InDelta(t, 0.015375/2, base.Transform.Position.Y, 1e-12)

	coin := content.Find("coin")
	require.NotNil(t, coin)
	require.InDelta(t, 45*0.00179, coin.Renderable.(scene.Cylinder).Height, 1e-12)

	label := content.Find("label")
	require.InDelta(t, 0.015375+0.1, label.Transform.Position.Y, 1e-12)

	// Anchor is placed at the tap position.
	require.Equal(t, 1.0, content.Parent().Transform.Position.X)
}

func TestComposer_ZeroTotalHasOnlyLabel(t *testing.T) {
	h := start(t, &stubLoader{})
	tap(h, 0)

	content := h.waitLabel(t, "cash", "0")
	require.Equal(t, 2, content.Count(), "cash node plus label")
	require.InDelta(t, 0.1, content.Find("label").Transform.Position.Y, 1e-12)
}

func TestComposer_ParameterChangeReplacesSubtree(t *testing.T) {
	h := start(t, &stubLoader{})
	require.NoError(t, h.store.SetStartAmount(100))
	tap(h, 0)
	h.waitLabel(t, "cash", "100")

	require.NoError(t, h.store.SetStartAmount(1_000_000))
	content := h.waitLabel(t, "cash", "1000000")
	require.NotNil(t, content.Find("pile-2"))
	require.Nil(t, content.Find("pile-3"))
}

func TestComposer_RepeatedTapsLeaveNoOrphans(t *testing.T) {
	h := start(t, &stubLoader{})
	require.NoError(t, h.store.SetStartAmount(500_000))

	for i := 1; i <= 10; i++ {
		tap(h, float64(i))
	}

	require.Eventually(t, func() bool {
		root := h.composer.Scene()
		anchors := root.Children()
		return len(anchors) == 1 && anchors[0].Transform.Position.X == 10 && anchors[0].Len() == 1
	}, waitFor, time.Millisecond)

	// Every published scene has at most one anchor with at most one subtree.
	h.sink.mu.Lock()
	scenes := append([]*scene.Node(nil), h.sink.scenes...)
	h.sink.mu.Unlock()
	for _, s := range scenes {
		require.LessOrEqual(t, s.Len(), 1)
		for _, a := range s.Children() {
			require.LessOrEqual(t, a.Len(), 1)
		}
	}
}

func TestComposer_ModeSwitch(t *testing.T) {
	h := start(t, &stubLoader{})
	require.NoError(t, h.store.SetStartAmount(150_000))
	tap(h, 0)
	h.waitLabel(t, "cash", "150000")

	require.NoError(t, h.store.SetMode(model.ModeCar))
	content := h.waitLabel(t, "car", "150000")
	require.Equal(t, model.ModeCar, h.composer.Mode())

	inst := content.Find("model").Renderable.(scene.ModelInstance)
	require.Len(t, inst.Materials, 24)
	require.Equal(t, 12, inst.Revealed)

	transparent := 0
	for _, m := range inst.Materials {
		if m.Name == string(resource.Transparent) {
			transparent++
		}
	}
	require.Equal(t, 12, transparent)
	require.Nil(t, content.Find("pile-0"))

	require.NoError(t, h.store.SetMode(model.ModeCash))
	h.waitLabel(t, "cash", "150000")
}

func TestComposer_StaleModeLoadNeverAttaches(t *testing.T) {
	release := make(chan struct{})
	var carLoads atomic.Int32
	h := start(t, &stubLoader{hooks: map[resource.Purpose]func(context.Context) error{
		resource.CarModel: func(ctx context.Context) error {
			carLoads.Add(1)
			select {
			case <-release:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}})
	require.NoError(t, h.store.SetStartAmount(150_000))
	tap(h, 0)
	h.waitLabel(t, "cash", "150000")

	require.NoError(t, h.store.SetMode(model.ModeCar))
	require.Eventually(t, func() bool { return carLoads.Load() == 1 }, waitFor, time.Millisecond)
	require.Equal(t, Composing, h.composer.State())

	require.NoError(t, h.store.SetMode(model.ModeHome))
	h.waitLabel(t, "home", "150000")

	close(release)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, "home", contentOf(h.composer.Scene()).Name)

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	for _, s := range h.sink.scenes {
		require.Nil(t, s.Find("car"), "car subtree attached after switching away")
	}
}

func TestComposer_LoadFailureRetriesOnNextTrigger(t *testing.T) {
	var attempts atomic.Int32
	gate := make(chan struct{})
	h := start(t, &stubLoader{hooks: map[resource.Purpose]func(context.Context) error{
		resource.BillBase: func(context.Context) error {
			if attempts.Add(1) == 1 {
				<-gate
				return errors.New("texture decode failed")
			}
			return nil
		},
	}})
	tap(h, 0)

	// Hold the first load until both the tap and the first total are in.
	require.Eventually(t, func() bool {
		_, hasTotal := h.composer.Total()
		return hasTotal && attempts.Load() == 1 && h.composer.State() == Composing
	}, waitFor, time.Millisecond)
	close(gate)

	require.Eventually(t, func() bool { return h.sink.failureCount() == 1 }, waitFor, time.Millisecond)
	require.Equal(t, Composing, h.composer.State())
	require.Nil(t, contentOf(h.composer.Scene()), "nothing attached after a failed load")

	h.sink.mu.Lock()
	require.Equal(t, resource.BillBase, h.sink.failures[0])
	h.sink.mu.Unlock()

	require.NoError(t, h.store.SetStartAmount(10))
	h.waitLabel(t, "cash", "10")
	require.Equal(t, Composed, h.composer.State())
	require.EqualValues(t, 2, attempts.Load())
}

func TestComposer_TeardownIsNoOp(t *testing.T) {
	h := start(t, &stubLoader{})
	tap(h, 0)
	h.waitState(t, Composed)

	require.NoError(t, h.stop())
	require.Equal(t, Idle, h.composer.State())

	before := h.sink.sceneCount()
	require.NoError(t, h.store.SetStartAmount(99))
	tap(h, 3)
	require.NoError(t, h.store.SetMode(model.ModeHome))
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, before, h.sink.sceneCount())

	require.ErrorIs(t, h.composer.Run(context.Background()), ErrAlreadyRunning)
}

func TestComposer_TotalsReachSink(t *testing.T) {
	h := start(t, &stubLoader{})
	require.NoError(t, h.store.Apply(model.Parameters{MonthlySavings: 1, StartAmount: 0, DurationYears: 1}))

	require.Eventually(t, func() bool {
		h.sink.mu.Lock()
		defer h.sink.mu.Unlock()
		n := len(h.sink.totals)
		return n > 0 && h.sink.totals[n-1] == 12
	}, waitFor, time.Millisecond)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "composed", Composed.String())
	require.Equal(t, "state(7)", State(7).String())
}
