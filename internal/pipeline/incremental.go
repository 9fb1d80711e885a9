package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dset/arsavings/internal/source"
	"github.com/dset/arsavings/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Removed   int
}

// LoadWithCache discovers, diffs against cache, parses only changed files,
// drops entries for files that no longer exist, and returns the combined
// catalog.
func LoadWithCache(assetsDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(assetsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", assetsDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{TotalFiles: len(files)},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	unchanged := make(map[string]struct{})
	seen := make(map[string]struct{}, len(files))

	for _, f := range files {
		seen[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	cachedAssets, err := cache.LoadAllAssets()
	if err != nil {
		return nil, fmt.Errorf("loading cached assets: %w", err)
	}
	for _, a := range cachedAssets {
		if _, ok := unchanged[a.Path]; ok {
			result.Assets = append(result.Assets, a)
			result.ParsedFiles++
			continue
		}
		if _, ok := seen[a.Path]; !ok {
			_ = cache.DeleteAsset(a.Name)
			_ = cache.DeleteFileTracker(a.Path)
			result.Removed++
		}
	}

	if len(toReparse) == 0 {
		return result, nil
	}

	for i, pr := range parseAll(toReparse, result.CacheHits, result.TotalFiles, progressFn) {
		if !result.collect(pr) {
			continue
		}
		info, err := os.Stat(toReparse[i].Path)
		if err == nil {
			_ = cache.SaveAsset(pr.Info, info.ModTime().UnixNano(), info.Size())
		}
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "arsavings")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "arsavings")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "assets.db")
}
