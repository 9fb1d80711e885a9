package scene

import (
	"github.com/dset/arsavings/internal/model"

	"github.com/google/uuid"
)

// Anchor is a node pinned to a world placement. At most one anchor is live
// under a composer's root at a time.
type Anchor struct {
	*Node
	ID    uuid.UUID
	World model.AnchorTransform
}

// NewAnchor returns a detached anchor node for t.
func NewAnchor(t model.AnchorTransform) *Anchor {
	id := uuid.New()
	n := NewNode("anchor-" + id.String()[:8])
	n.Transform.Position = t.Position
	n.Transform.Rotation = t.Rotation
	if n.Transform.Rotation == (model.AnchorTransform{}).Rotation {
		n.Transform.Rotation = IdentityRotation()
	}
	return &Anchor{Node: n, ID: id, World: t}
}
