package model

// AssetKind classifies files found in the assets directory.
type AssetKind int

const (
	AssetModel AssetKind = iota
	AssetTexture
)

func (k AssetKind) String() string {
	if k == AssetTexture {
		return "texture"
	}
	return "model"
}

// SubmeshInfo describes one independently shaded part of a model.
type SubmeshInfo struct {
	Name     string
	Material string
	Color    [4]float64
}

// AssetInfo is the metadata parsed from one asset file.
type AssetInfo struct {
	Name      string // path relative to the assets directory, slash separated
	Path      string
	Kind      AssetKind
	Format    string // gltf, glb, png, jpeg
	Generator string

	// Models only.
	Submeshes []SubmeshInfo

	// Textures only.
	Width  int
	Height int
}
