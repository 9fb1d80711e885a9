// Package scene is the minimal scene graph handed to renderers: a tree of
// transforms with optional renderables, where every node is owned by
// exactly one parent.
package scene

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrCycle is returned when attaching a node would make it its own ancestor.
var ErrCycle = errors.New("scene: node would become its own ancestor")

// Transform is a node's placement relative to its parent.
type Transform struct {
	Position r3.Vec
	Scale    r3.Vec
	Rotation r3.Rotation
}

// Identity returns the transform that leaves its children in place.
func Identity() Transform {
	return Transform{
		Scale:    r3.Vec{X: 1, Y: 1, Z: 1},
		Rotation: IdentityRotation(),
	}
}

// At returns an identity transform translated to pos.
func At(pos r3.Vec) Transform {
	t := Identity()
	t.Position = pos
	return t
}

// IdentityRotation returns the zero rotation. The zero value of r3.Rotation
// is not a valid rotation.
func IdentityRotation() r3.Rotation {
	return r3.NewRotation(0, r3.Vec{Y: 1})
}

// AxisAngle returns a rotation of deg degrees about axis. A zero angle or
// zero axis yields the identity.
func AxisAngle(deg float64, axis r3.Vec) r3.Rotation {
	if deg == 0 || r3.Norm(axis) == 0 {
		return IdentityRotation()
	}
	return r3.NewRotation(deg*math.Pi/180, axis)
}

// Apply maps a point in this transform's local space into the parent space.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	scaled := r3.Vec{X: p.X * t.Scale.X, Y: p.Y * t.Scale.Y, Z: p.Z * t.Scale.Z}
	return r3.Add(t.Position, t.Rotation.Rotate(scaled))
}

// Node is a scene graph node. The parent pointer is a back-reference used
// only to detach; ownership runs from parent to children.
type Node struct {
	Name       string
	Transform  Transform
	Renderable Renderable

	parent   *Node
	children []*Node
}

// NewNode returns a detached node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: Identity()}
}

// Parent returns the owning node, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list in insertion order.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.children) }

// AddChild attaches c as the last child of n, detaching it from any previous
// parent first.
func (n *Node) AddChild(c *Node) error {
	for p := n; p != nil; p = p.parent {
		if p == c {
			return ErrCycle
		}
	}
	c.Detach()
	c.parent = n
	n.children = append(n.children, c)
	return nil
}

// RemoveChild detaches c if it is a direct child of n.
func (n *Node) RemoveChild(c *Node) bool {
	i := slices.Index(n.children, c)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	c.parent = nil
	return true
}

// Detach removes n from its parent, keeping its own subtree intact.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Clear destroys the subtree rooted at n: every descendant is detached from
// its parent, bottom-up, and then n itself is detached.
func (n *Node) Clear() {
	children := n.children
	n.children = nil
	for _, c := range children {
		c.parent = nil
		c.Clear()
	}
	n.Detach()
}

// Walk calls fn for n and each descendant in depth-first pre-order. Returning
// false from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree, including n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Find returns the first node named name in pre-order, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// Clone returns a detached deep copy of the subtree. Renderables are copied
// by value; the resources they reference are shared.
func (n *Node) Clone() *Node {
	cp := &Node{
		Name:       n.Name,
		Transform:  n.Transform,
		Renderable: n.Renderable,
		children:   make([]*Node, 0, len(n.children)),
	}
	for _, c := range n.children {
		cc := c.Clone()
		cc.parent = cp
		cp.children = append(cp.children, cc)
	}
	return cp
}

// WorldPosition returns the node origin in root space.
func (n *Node) WorldPosition() r3.Vec {
	var p r3.Vec
	for cur := n; cur != nil; cur = cur.parent {
		p = cur.Transform.Apply(p)
	}
	return p
}
