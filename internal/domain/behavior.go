package domain

import "github.com/sharivan/XSharp-sub001/internal/core/types/enums"

// Behavior holds the per-kind overrides of an entity.
// Embed BaseBehavior to get no-op defaults and only override what the kind needs.
type Behavior interface {
	Kind() enums.EntityType

	// PreThink gates the rest of OnFrame; returning false skips think and
	// touch processing for this tick.
	PreThink(e *Entity) bool
	Think(e *Entity)
	PostThink(e *Entity)

	StartTouch(e, other *Entity)
	Touching(e, other *Entity)
	EndTouch(e, other *Entity)

	// Death fires from Kill, after the children were detached.
	Death(e *Entity)

	// BoundingBox is the absolute box used for overlap detection.
	BoundingBox(e *Entity) Box
}

// BaseBehavior implements every hook as a no-op. The bounding box is the
// entity hitbox placed at its origin.
type BaseBehavior struct{}

func (BaseBehavior) PreThink(*Entity) bool { return true }
func (BaseBehavior) Think(*Entity) {}
func (BaseBehavior) PostThink(*Entity) {}
func (BaseBehavior) StartTouch(_, _ *Entity) {}
func (BaseBehavior) Touching(_, _ *Entity) {}
func (BaseBehavior) EndTouch(_, _ *Entity) {}
func (BaseBehavior) Death(*Entity) {}
func (BaseBehavior) BoundingBox(e *Entity) Box { return e.Hitbox().Translate(e.Origin()) }
