package source

import "github.com/dset/arsavings/internal/model"

// RawDocument is the subset of a glTF 2.0 document the catalog reads.
type RawDocument struct {
	Asset     RawAssetInfo  `json:"asset"`
	Meshes    []RawMesh     `json:"meshes"`
	Materials []RawMaterial `json:"materials"`
}

// RawAssetInfo is the glTF "asset" header.
type RawAssetInfo struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// RawMesh is a glTF mesh. Each primitive is one submesh.
type RawMesh struct {
	Name       string         `json:"name"`
	Primitives []RawPrimitive `json:"primitives"`
}

// RawPrimitive references its material by index.
type RawPrimitive struct {
	Material *int `json:"material,omitempty"`
}

// RawMaterial is a glTF material.
type RawMaterial struct {
	Name      string  `json:"name"`
	PBR       *RawPBR `json:"pbrMetallicRoughness,omitempty"`
	AlphaMode string  `json:"alphaMode,omitempty"`
}

// RawPBR holds the metallic-roughness base color.
type RawPBR struct {
	BaseColorFactor []float64 `json:"baseColorFactor,omitempty"`
}

// DiscoveredFile is an asset file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string // relative to the scanned directory, slash separated
	Kind   model.AssetKind
	Format string
}
