package pipeline

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dset/arsavings/internal/source"
	"github.com/dset/arsavings/internal/store"
)

func benchAssets(b *testing.B) string {
	b.Helper()
	files := map[string][]byte{"bill_face.png": pngBytes(b, 512, 256)}
	for i := range 64 {
		files[fmt.Sprintf("models/m%02d.gltf", i)] = []byte(twoPartGLTF)
	}
	return writeAssets(b, files)
}

func BenchmarkLoad(b *testing.B) {
	dir := benchAssets(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := Load(dir, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}

func BenchmarkParseFile(b *testing.B) {
	dir := benchAssets(b)
	files, err := source.ScanDir(dir)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := source.ParseFile(files[i%len(files)])
		if result.Err != nil {
			b.Fatal(result.Err)
		}
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	dir := benchAssets(b)

	cache, err := store.Open(filepath.Join(b.TempDir(), "assets.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr, err := LoadWithCache(dir, cache, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = cr
	}
}
