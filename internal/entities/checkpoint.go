package entities

import (
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
)

// Checkpoint records itself as the respawn point of players touching it.
// Later checkpoints have a higher Order.
type Checkpoint struct {
	domain.BaseBehavior
	Order int32
}

func NewCheckpoint() *Checkpoint { return &Checkpoint{} }

func (c *Checkpoint) Kind() enums.EntityType { return enums.EntityTypeCheckpoint }

func (c *Checkpoint) StartTouch(e, other *domain.Entity) {
	if p, ok := other.Behavior().(*Player); ok {
		p.ReachCheckpoint(other, e)
	}
}

func (c *Checkpoint) WriteState(w domain.StateWriter) { w.WriteInt32(c.Order) }
func (c *Checkpoint) ReadState(r domain.StateReader) { c.Order = r.ReadInt32() }
