package composer

import (
	"fmt"

	"github.com/dset/arsavings/internal/layout"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/reveal"
	"github.com/dset/arsavings/internal/scene"

	"gonum.org/v1/gonum/spatial/r3"
)

// build returns a complete detached subtree for mode. It reads resources
// from the cache only; callers ensure they are loaded.
func (c *Composer) build(mode model.Mode, total int64) (*scene.Node, error) {
	label, err := peek[*scene.TextSurface](c.cache, resource.LabelSurface)
	if err != nil {
		return nil, err
	}
	if mode.IsAsset() {
		return c.buildAsset(mode, total, label)
	}
	return c.buildCash(total, label)
}

func (c *Composer) buildCash(total int64, label *scene.TextSurface) (*scene.Node, error) {
	base, err := peek[*scene.Material](c.cache, resource.BillBase)
	if err != nil {
		return nil, err
	}
	face, err := peek[*scene.Material](c.cache, resource.BillFace)
	if err != nil {
		return nil, err
	}
	coin, err := peek[*scene.Material](c.cache, resource.Coin)
	if err != nil {
		return nil, err
	}

	g := c.opts.Geometry
	lay := layout.Layout(total, g)
	root := scene.NewNode("cash")

	for i, p := range lay.Piles {
		pile := scene.NewNode(fmt.Sprintf("pile-%d", i))

		b := scene.NewNode("base")
		b.Transform = scene.At(r3.Vec{X: p.Position.X, Y: p.Height / 2, Z: p.Position.Z})
		b.Renderable = scene.Cube{Width: g.BillWidth, Height: p.Height, Depth: g.BillHeight, Material: base}

		f := scene.NewNode("face")
		f.Transform = scene.At(r3.Vec{X: p.Position.X, Y: p.Height + g.FaceOffset, Z: p.Position.Z})
		f.Renderable = scene.Quad{Width: g.BillWidth, Depth: g.BillHeight, Material: face}

		attach(pile, b, f)
		attach(root, pile)
	}

	if lay.Coin.Height > 0 {
		n := scene.NewNode("coin")
		n.Transform = scene.At(r3.Vec{X: lay.Coin.Position.X, Y: lay.Coin.Height / 2, Z: lay.Coin.Position.Z})
		n.Renderable = scene.Cylinder{Radius: g.CoinRadius, Height: lay.Coin.Height, Material: coin}
		attach(root, n)
	}

	attach(root, c.labelNode(lay.LabelAnchor, total, label))
	return root, nil
}

func (c *Composer) buildAsset(mode model.Mode, total int64, label *scene.TextSurface) (*scene.Node, error) {
	asset, _ := c.opts.Assets.ForMode(mode)
	purpose, _ := resource.ModelFor(mode)

	mdl, err := peek[*scene.Model](c.cache, purpose)
	if err != nil {
		return nil, err
	}
	transparent, err := peek[*scene.Material](c.cache, resource.Transparent)
	if err != nil {
		return nil, err
	}

	plan := reveal.Compute(total, asset.Price, len(mdl.Submeshes), asset.Seed)
	materials := make([]*scene.Material, len(mdl.Submeshes))
	for i, sm := range mdl.Submeshes {
		if plan.Revealed(i) {
			materials[i] = sm.Material
		} else {
			materials[i] = transparent
		}
	}

	root := scene.NewNode(mode.String())

	n := scene.NewNode("model")
	n.Transform = scene.Transform{
		Position: vec(asset.Position),
		Scale:    r3.Vec{X: asset.Scale, Y: asset.Scale, Z: asset.Scale},
		Rotation: scene.AxisAngle(asset.RotationDeg, vec(asset.RotationAxis)),
	}
	n.Renderable = scene.ModelInstance{Model: mdl, Materials: materials, Revealed: plan.Count()}
	attach(root, n)

	attach(root, c.labelNode(r3.Vec{Y: asset.LabelHeight}, total, label))
	return root, nil
}

func (c *Composer) labelNode(at r3.Vec, total int64, surface *scene.TextSurface) *scene.Node {
	n := scene.NewNode("label")
	n.Transform = scene.At(at)
	n.Renderable = scene.Label{Text: c.opts.Formatter(total), Surface: surface}
	return n
}

// attach adds freshly built children, which cannot form a cycle.
func attach(parent *scene.Node, children ...*scene.Node) {
	for _, ch := range children {
		_ = parent.AddChild(ch)
	}
}

func vec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func peek[T any](c *resource.Cache, p resource.Purpose) (T, error) {
	v, ok := resource.PeekAs[T](c, p)
	if !ok {
		var zero T
		return zero, fmt.Errorf("resource %s not loaded or of the wrong type", p)
	}
	return v, nil
}
