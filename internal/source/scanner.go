package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dset/arsavings/internal/model"
)

var formats = map[string]struct {
	kind   model.AssetKind
	format string
}{
	".gltf": {model.AssetModel, "gltf"},
	".glb":  {model.AssetModel, "glb"},
	".png":  {model.AssetTexture, "png"},
	".jpg":  {model.AssetTexture, "jpeg"},
	".jpeg": {model.AssetTexture, "jpeg"},
}

// ScanDir walks the assets directory and discovers every model and texture
// file. A missing directory yields no files and no error.
func ScanDir(assetsDir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(assetsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(assetsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			if path != assetsDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		f, ok := formats[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		rel, _ := filepath.Rel(assetsDir, path)
		files = append(files, DiscoveredFile{
			Path:   path,
			Name:   filepath.ToSlash(rel),
			Kind:   f.kind,
			Format: f.format,
		})
		return nil
	})

	return files, err
}

// CountKind returns how many files in files are of kind k.
func CountKind(files []DiscoveredFile, k model.AssetKind) int {
	n := 0
	for _, f := range files {
		if f.Kind == k {
			n++
		}
	}
	return n
}
