package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/scene"
	"github.com/dset/arsavings/internal/store"
)

const twoPartGLTF = `{"asset":{"version":"2.0"},
 "materials":[{"name":"paint","pbrMetallicRoughness":{"baseColorFactor":[0.5,0.5,0.5,1]}}],
 "meshes":[{"name":"body","primitives":[{"material":0},{}]}]}`

// writeAssets populates a temp assets directory.
func writeAssets(t testing.TB, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func pngBytes(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	dir := writeAssets(t, map[string][]byte{
		"car.gltf":      []byte(twoPartGLTF),
		"bill_face.png": pngBytes(t, 16, 8),
		"broken.gltf":   []byte(`{`),
	})

	var (
		mu                     sync.Mutex
		lastCurrent, lastTotal int
	)
	result, err := Load(dir, func(current, total int) {
		mu.Lock()
		defer mu.Unlock()
		lastCurrent, lastTotal = max(lastCurrent, current), total
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalFiles != 3 || result.ParsedFiles != 2 || result.FileErrors != 1 {
		t.Errorf("result = %d total, %d parsed, %d errors; want 3, 2, 1",
			result.TotalFiles, result.ParsedFiles, result.FileErrors)
	}
	if lastCurrent != 3 || lastTotal != 3 {
		t.Errorf("progress ended at %d/%d, want 3/3", lastCurrent, lastTotal)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	result, err := Load(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", result.TotalFiles)
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := writeAssets(t, map[string][]byte{
		"car.gltf":      []byte(twoPartGLTF),
		"bill_face.png": pngBytes(t, 16, 8),
	})
	cache, err := store.Open(filepath.Join(t.TempDir(), "assets.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Reparsed != 2 || first.CacheHits != 0 {
		t.Errorf("first load: reparsed %d, hits %d; want 2, 0", first.Reparsed, first.CacheHits)
	}

	second, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.Reparsed != 0 || second.CacheHits != 2 || len(second.Assets) != 2 {
		t.Errorf("second load: reparsed %d, hits %d, assets %d; want 0, 2, 2",
			second.Reparsed, second.CacheHits, len(second.Assets))
	}

	car, ok := NewCatalog(second.Assets).Find("car.gltf")
	if !ok || len(car.Submeshes) != 2 {
		t.Fatalf("cached car = %+v, %v", car, ok)
	}

	if err := os.Remove(filepath.Join(dir, "car.gltf")); err != nil {
		t.Fatal(err)
	}
	third, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if third.Removed != 1 || len(third.Assets) != 1 {
		t.Errorf("third load: removed %d, assets %d; want 1, 1", third.Removed, len(third.Assets))
	}
	if n, _ := cache.AssetCount(); n != 1 {
		t.Errorf("AssetCount() = %d, want 1", n)
	}
}

func TestCatalogFind(t *testing.T) {
	c := NewCatalog([]model.AssetInfo{
		{Name: "models/Car.gltf"},
		{Name: "house.glb"},
	})

	for _, name := range []string{"models/car.gltf", "car.gltf", "HOUSE.GLB"} {
		if _, ok := c.Find(name); !ok {
			t.Errorf("Find(%q) missing", name)
		}
	}
	if _, ok := c.Find("boat.gltf"); ok {
		t.Error("Find(boat.gltf) found something")
	}

	var nilCatalog *Catalog
	if _, ok := nilCatalog.Find("car.gltf"); ok {
		t.Error("nil catalog found something")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.AssetInfo{
		{Name: "car.gltf", Kind: model.AssetModel, Format: "gltf", Submeshes: make([]model.SubmeshInfo, 3)},
		{Name: "house.gltf", Kind: model.AssetModel, Format: "gltf", Submeshes: make([]model.SubmeshInfo, 5)},
		{Name: "face.png", Kind: model.AssetTexture, Format: "png", Width: 4, Height: 2},
	})

	if s.Models != 2 || s.Textures != 1 || s.Submeshes != 8 {
		t.Errorf("Summary = %+v", s)
	}
	if s.LargestModel != "house.gltf" || s.MaxSubmeshes != 5 || s.LargestTexels != 8 {
		t.Errorf("largest = %q/%d texels %d", s.LargestModel, s.MaxSubmeshes, s.LargestTexels)
	}
	if len(s.Formats) != 2 || s.Formats[0].Format != "gltf" || s.Formats[0].Files != 2 {
		t.Errorf("Formats = %+v", s.Formats)
	}
}

func TestResourceLoader_FromCatalog(t *testing.T) {
	assets := config.DefaultAssets()
	cat := NewCatalog([]model.AssetInfo{
		{Name: "car.gltf", Kind: model.AssetModel, Submeshes: []model.SubmeshInfo{
			{Name: "body/0", Material: "paint", Color: [4]float64{0.5, 0.5, 0.5, 1}},
			{Name: "body/1"},
		}},
		{Name: "bill_face.png", Kind: model.AssetTexture, Width: 16, Height: 8, Format: "png"},
	})
	l := NewResourceLoader(cat, assets)
	ctx := context.Background()

	v, err := l.Load(ctx, resource.CarModel)
	if err != nil {
		t.Fatal(err)
	}
	car := v.(*scene.Model)
	if car.Source != "car.gltf" || len(car.Submeshes) != 2 || car.Submeshes[0].Material.Name != "paint" {
		t.Errorf("car = %+v", car)
	}

	v, err = l.Load(ctx, resource.BillFace)
	if err != nil {
		t.Fatal(err)
	}
	face := v.(*scene.Material)
	if face.Texture == nil || face.Texture.Width != 16 {
		t.Errorf("face texture = %+v", face.Texture)
	}
}

func TestResourceLoader_Fallbacks(t *testing.T) {
	assets := config.DefaultAssets()
	l := NewResourceLoader(nil, assets)
	ctx := context.Background()

	v, err := l.Load(ctx, resource.HomeModel)
	if err != nil {
		t.Fatal(err)
	}
	if home := v.(*scene.Model); len(home.Submeshes) != assets.Home.DefaultSubmeshes {
		t.Errorf("home submeshes = %d, want %d", len(home.Submeshes), assets.Home.DefaultSubmeshes)
	}

	for _, p := range resource.Purposes() {
		if _, err := l.Load(ctx, p); err != nil {
			t.Errorf("Load(%s) = %v", p, err)
		}
	}

	if _, err := l.Load(ctx, resource.Purpose("mesh/boat")); !errors.Is(err, ErrUnknownPurpose) {
		t.Errorf("Load(unknown) = %v, want ErrUnknownPurpose", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := l.Load(cctx, resource.Coin); !errors.Is(err, context.Canceled) {
		t.Errorf("Load(cancelled) = %v, want context.Canceled", err)
	}

	assets.Car.DefaultSubmeshes = 0
	l = NewResourceLoader(nil, assets)
	if _, err := l.Load(ctx, resource.CarModel); err == nil {
		t.Error("expected error for missing asset with no fallback")
	}
}
