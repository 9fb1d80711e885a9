package scene

import (
	"encoding/json"

	"gonum.org/v1/gonum/num/quat"
)

type nodeJSON struct {
	Name       string      `json:"name"`
	Position   [3]float64  `json:"position"`
	Scale      [3]float64  `json:"scale"`
	Rotation   [4]float64  `json:"rotation"`
	Kind       string      `json:"kind,omitempty"`
	Renderable Renderable  `json:"renderable,omitempty"`
	Children   []*nodeJSON `json:"children,omitempty"`
}

// MarshalJSON encodes the subtree rooted at n. Rotations are written as
// quaternions in (w, x, y, z) order.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.export())
}

func (n *Node) export() *nodeJSON {
	q := quat.Number(n.Transform.Rotation)
	out := &nodeJSON{
		Name:     n.Name,
		Position: vec3(n.Transform.Position.X, n.Transform.Position.Y, n.Transform.Position.Z),
		Scale:    vec3(n.Transform.Scale.X, n.Transform.Scale.Y, n.Transform.Scale.Z),
		Rotation: [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
	}
	if n.Renderable != nil {
		out.Kind = n.Renderable.Kind()
		out.Renderable = n.Renderable
	}
	for _, c := range n.children {
		out.Children = append(out.Children, c.export())
	}
	return out
}

func vec3(x, y, z float64) [3]float64 { return [3]float64{x, y, z} }
