package scene

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dset/arsavings/internal/model"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func tree() (root, a, b, a1 *Node) {
	root, a, b, a1 = NewNode("root"), NewNode("a"), NewNode("b"), NewNode("a1")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	_ = a.AddChild(a1)
	return
}

func TestAddChild_Reparents(t *testing.T) {
	root, a, b, a1 := tree()

	if err := b.AddChild(a1); err != nil {
		t.Fatal(err)
	}
	if a1.Parent() != b {
		t.Fatalf("a1.Parent() = %v, want b", a1.Parent().Name)
	}
	if a.Len() != 0 {
		t.Fatalf("a.Len() = %d, want 0 after reparent", a.Len())
	}
	if got := root.Count(); got != 4 {
		t.Fatalf("root.Count() = %d, want 4", got)
	}
}

func TestAddChild_RejectsCycle(t *testing.T) {
	root, a, _, a1 := tree()

	if err := a1.AddChild(root); !errors.Is(err, ErrCycle) {
		t.Fatalf("a1.AddChild(root) = %v, want ErrCycle", err)
	}
	if err := a.AddChild(a); !errors.Is(err, ErrCycle) {
		t.Fatalf("a.AddChild(a) = %v, want ErrCycle", err)
	}
	if root.Parent() != nil || a1.Parent() != a {
		t.Fatal("tree modified by rejected attach")
	}
}

func TestRemoveChild(t *testing.T) {
	root, a, b, _ := tree()

	if !root.RemoveChild(a) {
		t.Fatal("RemoveChild(a) = false")
	}
	if root.RemoveChild(a) {
		t.Fatal("second RemoveChild(a) = true")
	}
	if a.Parent() != nil {
		t.Fatal("a still has a parent")
	}
	if got := root.Children(); len(got) != 1 || got[0] != b {
		t.Fatalf("root.Children() = %v, want [b]", got)
	}
}

func TestClear_LeavesNoOrphans(t *testing.T) {
	root, a, b, a1 := tree()
	a2 := NewNode("a2")
	_ = a.AddChild(a2)

	a.Clear()

	if a.Parent() != nil || a.Len() != 0 {
		t.Fatal("cleared node still linked")
	}
	for _, n := range []*Node{a1, a2} {
		if n.Parent() != nil {
			t.Fatalf("%s still has a parent after Clear", n.Name)
		}
	}
	if got := root.Children(); len(got) != 1 || got[0] != b {
		t.Fatalf("root.Children() = %v, want [b]", got)
	}
}

func TestClone_IsDetachedDeepCopy(t *testing.T) {
	root, a, _, _ := tree()
	a.Renderable = Cube{Width: 1}

	cp := root.Clone()
	if cp.Count() != root.Count() {
		t.Fatalf("clone Count() = %d, want %d", cp.Count(), root.Count())
	}

	ca := cp.Find("a")
	if ca == a || ca.Parent() != cp {
		t.Fatal("clone shares nodes with the original")
	}
	if ca.Renderable.Kind() != "cube" {
		t.Fatalf("clone renderable = %v", ca.Renderable)
	}

	ca.Clear()
	if root.Count() != 4 {
		t.Fatal("clearing the clone modified the original")
	}
}

func TestWalk_SkipsChildren(t *testing.T) {
	root, _, _, _ := tree()

	var names []string
	root.Walk(func(n *Node, depth int) bool {
		names = append(names, strings.Repeat(".", depth)+n.Name)
		return n.Name != "a"
	})

	if got, want := strings.Join(names, " "), "root .a .b"; got != want {
		t.Fatalf("walk = %q, want %q", got, want)
	}
}

func TestWorldPosition(t *testing.T) {
	root := NewNode("root")
	parent := NewNode("parent")
	parent.Transform = At(r3.Vec{X: 1})
	parent.Transform.Scale = r3.Vec{X: 2, Y: 2, Z: 2}
	parent.Transform.Rotation = AxisAngle(90, r3.Vec{Y: 1})
	child := NewNode("child")
	child.Transform = At(r3.Vec{X: 1})
	_ = root.AddChild(parent)
	_ = parent.AddChild(child)

	got := child.WorldPosition()
	// +X scaled to 2 and turned a quarter about +Y lands on -Z.
	want := r3.Vec{X: 1, Z: -2}
	const tol = 1e-9
	if !scalar.EqualWithinAbs(got.X, want.X, tol) || !scalar.EqualWithinAbs(got.Y, want.Y, tol) || !scalar.EqualWithinAbs(got.Z, want.Z, tol) {
		t.Fatalf("WorldPosition() = %v, want %v", got, want)
	}
}

func TestAxisAngle_ZeroAxisIsIdentity(t *testing.T) {
	r := AxisAngle(45, r3.Vec{})
	v := r.Rotate(r3.Vec{X: 1, Y: 2, Z: 3})
	if math.IsNaN(v.X) || v != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("Rotate = %v, want unchanged", v)
	}
}

func TestNewAnchor(t *testing.T) {
	a := NewAnchor(model.NewAnchorTransform(r3.Vec{X: 2}))
	b := NewAnchor(model.AnchorTransform{})

	if a.ID == b.ID {
		t.Fatal("anchors share an ID")
	}
	if a.Transform.Position.X != 2 {
		t.Fatalf("anchor position = %v", a.Transform.Position)
	}
	if b.Transform.Rotation != IdentityRotation() {
		t.Fatalf("zero rotation not normalized: %v", b.Transform.Rotation)
	}
}

func TestMarshalJSON(t *testing.T) {
	root := NewNode("root")
	mat := &Material{Name: "bill-base"}
	pile := NewNode("pile-0")
	pile.Transform = At(r3.Vec{Y: 0.25})
	pile.Renderable = Cube{Width: 0.133, Height: 0.5, Depth: 0.066, Material: mat}
	_ = root.AddChild(pile)

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Name     string `json:"name"`
		Rotation [4]float64
		Children []struct {
			Name       string     `json:"name"`
			Kind       string     `json:"kind"`
			Position   [3]float64 `json:"position"`
			Renderable struct {
				Height   float64 `json:"height"`
				Material struct {
					Name string `json:"name"`
				} `json:"material"`
			} `json:"renderable"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Rotation != [4]float64{1, 0, 0, 0} {
		t.Fatalf("root rotation = %v, want identity", got.Rotation)
	}
	if len(got.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(got.Children))
	}
	c := got.Children[0]
	if c.Kind != "cube" || c.Position[1] != 0.25 || c.Renderable.Height != 0.5 || c.Renderable.Material.Name != "bill-base" {
		t.Fatalf("child = %+v", c)
	}
}
