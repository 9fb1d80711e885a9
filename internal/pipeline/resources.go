package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/scene"
)

// ErrUnknownPurpose is returned for a purpose the loader cannot produce.
var ErrUnknownPurpose = errors.New("unknown resource purpose")

// BillFaceTexture is the catalog name looked up for the bill face image.
const BillFaceTexture = "bill_face.png"

// Palette colors for the built-in materials.
var (
	colorBill        = scene.Color{0.42, 0.62, 0.45, 1}
	colorBillFace    = scene.Color{1, 1, 1, 1}
	colorCoin        = scene.Color{0.83, 0.69, 0.22, 1}
	colorTransparent = scene.Color{1, 1, 1, 0.12}
)

// partColors tint the parts of synthetic models.
var partColors = []scene.Color{
	{0.80, 0.20, 0.18, 1},
	{0.25, 0.45, 0.75, 1},
	{0.90, 0.85, 0.70, 1},
	{0.35, 0.35, 0.38, 1},
}

// ResourceLoader produces scene resources from the asset catalog. Assets
// missing from the catalog fall back to built-in stand-ins so a session
// always has something to render.
type ResourceLoader struct {
	Catalog *Catalog
	Assets  config.AssetsConfig
}

// NewResourceLoader returns a loader over catalog.
func NewResourceLoader(catalog *Catalog, assets config.AssetsConfig) *ResourceLoader {
	return &ResourceLoader{Catalog: catalog, Assets: assets}
}

var _ resource.Loader = (*ResourceLoader)(nil)

// Load implements resource.Loader.
func (l *ResourceLoader) Load(ctx context.Context, p resource.Purpose) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch p {
	case resource.BillBase:
		return &scene.Material{Name: "bill-base", Color: colorBill}, nil
	case resource.BillFaceTexture:
		return l.billTexture(), nil
	case resource.BillFace:
		return &scene.Material{Name: "bill-face", Color: colorBillFace, Texture: l.billTexture()}, nil
	case resource.Coin:
		return &scene.Material{Name: "coin", Color: colorCoin}, nil
	case resource.Transparent:
		return &scene.Material{Name: "transparent", Color: colorTransparent, Transparent: true}, nil
	case resource.LabelSurface:
		return &scene.TextSurface{Name: "total-label", Width: 0.3, Height: 0.08, FontSize: 0.05}, nil
	case resource.CarModel:
		return l.model(model.ModeCar)
	case resource.HomeModel:
		return l.model(model.ModeHome)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPurpose, p)
	}
}

func (l *ResourceLoader) billTexture() *scene.Texture {
	if info, ok := l.Catalog.Find(BillFaceTexture); ok && info.Kind == model.AssetTexture {
		return &scene.Texture{Name: info.Name, Width: info.Width, Height: info.Height, Format: info.Format}
	}
	return &scene.Texture{Name: "builtin:bill-face", Width: 512, Height: 256}
}

func (l *ResourceLoader) model(m model.Mode) (*scene.Model, error) {
	asset, ok := l.Assets.ForMode(m)
	if !ok {
		return nil, fmt.Errorf("%w: no asset for %s", ErrUnknownPurpose, m)
	}

	if info, ok := l.Catalog.Find(asset.File); ok && info.Kind == model.AssetModel && len(info.Submeshes) > 0 {
		out := &scene.Model{Name: m.String(), Source: info.Name}
		for _, sm := range info.Submeshes {
			c := sm.Color
			out.Submeshes = append(out.Submeshes, scene.Submesh{
				Name: sm.Name,
				Material: &scene.Material{
					Name:  sm.Material,
					Color: scene.Color{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])},
				},
			})
		}
		return out, nil
	}

	if asset.DefaultSubmeshes <= 0 {
		return nil, fmt.Errorf("asset %s not found in catalog", asset.File)
	}
	out := &scene.Model{Name: m.String(), Source: "builtin:" + asset.File}
	for i := range asset.DefaultSubmeshes {
		out.Submeshes = append(out.Submeshes, scene.Submesh{
			Name:     fmt.Sprintf("part-%02d", i),
			Material: &scene.Material{Name: fmt.Sprintf("part-%02d", i), Color: partColors[i%len(partColors)]},
		})
	}
	return out, nil
}
