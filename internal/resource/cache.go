// Package resource memoizes asynchronously loaded rendering resources by
// purpose. Concurrent first callers share one load; failures are never
// stored, so the next caller retries.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dset/arsavings/internal/model"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Purpose names what a resource is for. It is the cache key.
type Purpose string

const (
	BillBase        Purpose = "material/bill-base"
	BillFaceTexture Purpose = "texture/bill-face"
	BillFace        Purpose = "material/bill-face"
	Coin            Purpose = "material/coin"
	Transparent     Purpose = "material/transparent"
	LabelSurface    Purpose = "surface/label"
	CarModel        Purpose = "model/car"
	HomeModel       Purpose = "model/home"
)

// Purposes returns every known purpose.
func Purposes() []Purpose {
	return []Purpose{BillBase, BillFaceTexture, BillFace, Coin, Transparent, LabelSurface, CarModel, HomeModel}
}

// ModelFor returns the model purpose of an asset mode.
func ModelFor(m model.Mode) (Purpose, bool) {
	switch m {
	case model.ModeCar:
		return CarModel, true
	case model.ModeHome:
		return HomeModel, true
	default:
		return "", false
	}
}

// ForMode returns the purposes a subtree of mode m is built from.
func ForMode(m model.Mode) []Purpose {
	if p, ok := ModelFor(m); ok {
		return []Purpose{Transparent, LabelSurface, p}
	}
	return []Purpose{BillBase, BillFace, Coin, LabelSurface}
}

// ErrLoadFailed matches every *LoadError.
var ErrLoadFailed = errors.New("resource load failed")

// LoadError reports the purpose whose load failed.
type LoadError struct {
	Purpose Purpose
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Purpose, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoadFailed.
func (e *LoadError) Is(target error) bool { return target == ErrLoadFailed }

// Loader produces the resource for a purpose.
type Loader interface {
	Load(ctx context.Context, p Purpose) (any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, p Purpose) (any, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, p Purpose) (any, error) { return f(ctx, p) }

// Cache is a per-session resource memo. The zero value is not usable; call
// NewCache.
type Cache struct {
	loader Loader
	group  singleflight.Group

	// Loads run on base so one caller giving up does not cancel the load
	// for the others sharing it. Close cancels base.
	base   context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	done map[Purpose]any

	loads atomic.Int64
}

// NewCache returns an empty cache backed by loader.
func NewCache(loader Loader) *Cache {
	base, cancel := context.WithCancel(context.Background())
	return &Cache{
		loader: loader,
		base:   base,
		cancel: cancel,
		done:   make(map[Purpose]any),
	}
}

// Load returns the resource for p, loading it at most once at a time. If ctx
// ends first Load returns ctx.Err() and the shared load continues.
func (c *Cache) Load(ctx context.Context, p Purpose) (any, error) {
	if v, ok := c.Peek(p); ok {
		return v, nil
	}
	if err := c.base.Err(); err != nil {
		return nil, &LoadError{Purpose: p, Err: err}
	}

	ch := c.group.DoChan(string(p), func() (any, error) {
		if v, ok := c.Peek(p); ok {
			return v, nil
		}
		c.loads.Add(1)
		v, err := c.loader.Load(c.base, p)
		if err != nil {
			return nil, &LoadError{Purpose: p, Err: err}
		}
		c.mu.Lock()
		c.done[p] = v
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}

// Peek returns a loaded resource without starting a load.
func (c *Cache) Peek(p Purpose) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.done[p]
	return v, ok
}

// Missing returns the purposes in ps that are not loaded yet.
func (c *Cache) Missing(ps ...Purpose) []Purpose {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Purpose
	for _, p := range ps {
		if _, ok := c.done[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Preload loads every purpose in parallel. It returns the first failure;
// the others still complete and successful ones are stored.
func (c *Cache) Preload(ctx context.Context, ps ...Purpose) error {
	var g errgroup.Group
	for _, p := range ps {
		g.Go(func() error {
			_, err := c.Load(ctx, p)
			return err
		})
	}
	return g.Wait()
}

// Reset forgets every stored resource.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.done)
}

// Loads returns how many times the loader has been invoked.
func (c *Cache) Loads() int64 { return c.loads.Load() }

// Close cancels in-flight loads. Later loads fail.
func (c *Cache) Close() { c.cancel() }

// Get loads p and asserts its type.
func Get[T any](ctx context.Context, c *Cache, p Purpose) (T, error) {
	var zero T
	v, err := c.Load(ctx, p)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &LoadError{Purpose: p, Err: fmt.Errorf("unexpected resource type %T", v)}
	}
	return t, nil
}

// PeekAs returns a loaded resource of type T.
func PeekAs[T any](c *Cache, p Purpose) (T, bool) {
	v, ok := c.Peek(p)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
