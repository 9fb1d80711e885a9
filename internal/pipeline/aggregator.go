package pipeline

import (
	"path"
	"sort"
	"strings"

	"github.com/dset/arsavings/internal/model"
)

// Catalog indexes parsed assets by name.
type Catalog struct {
	assets []model.AssetInfo
	byName map[string]int
	byBase map[string]int
}

// NewCatalog indexes assets. Names are matched case-insensitively, first by
// full relative name and then by base name.
func NewCatalog(assets []model.AssetInfo) *Catalog {
	sorted := make([]model.AssetInfo, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	c := &Catalog{
		assets: sorted,
		byName: make(map[string]int, len(sorted)),
		byBase: make(map[string]int, len(sorted)),
	}
	for i, a := range sorted {
		c.byName[strings.ToLower(a.Name)] = i
		base := strings.ToLower(path.Base(a.Name))
		if _, dup := c.byBase[base]; !dup {
			c.byBase[base] = i
		}
	}
	return c
}

// Find returns the asset named name.
func (c *Catalog) Find(name string) (model.AssetInfo, bool) {
	if c == nil {
		return model.AssetInfo{}, false
	}
	key := strings.ToLower(name)
	if i, ok := c.byName[key]; ok {
		return c.assets[i], true
	}
	if i, ok := c.byBase[path.Base(key)]; ok {
		return c.assets[i], true
	}
	return model.AssetInfo{}, false
}

// Assets returns the catalog in name order.
func (c *Catalog) Assets() []model.AssetInfo {
	if c == nil {
		return nil
	}
	return c.assets
}

// FormatStats summarizes the assets of one file format.
type FormatStats struct {
	Format    string
	Kind      model.AssetKind
	Files     int
	Submeshes int
}

// Summary aggregates a catalog for display.
type Summary struct {
	Models        int
	Textures      int
	Submeshes     int
	MaxSubmeshes  int
	LargestModel  string
	LargestTexels int
	Formats       []FormatStats
}

// Summarize computes summary statistics over a set of assets.
func Summarize(assets []model.AssetInfo) Summary {
	var s Summary
	byFormat := make(map[string]*FormatStats)

	for _, a := range assets {
		fs, ok := byFormat[a.Format]
		if !ok {
			fs = &FormatStats{Format: a.Format, Kind: a.Kind}
			byFormat[a.Format] = fs
		}
		fs.Files++

		switch a.Kind {
		case model.AssetModel:
			s.Models++
			n := len(a.Submeshes)
			s.Submeshes += n
			fs.Submeshes += n
			if n > s.MaxSubmeshes {
				s.MaxSubmeshes = n
				s.LargestModel = a.Name
			}
		case model.AssetTexture:
			s.Textures++
			s.LargestTexels = max(s.LargestTexels, a.Width*a.Height)
		}
	}

	for _, fs := range byFormat {
		s.Formats = append(s.Formats, *fs)
	}
	sort.Slice(s.Formats, func(i, j int) bool {
		if s.Formats[i].Files != s.Formats[j].Files {
			return s.Formats[i].Files > s.Formats[j].Files
		}
		return s.Formats[i].Format < s.Formats[j].Format
	})

	return s
}
