package entities

import (
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
)

const (
	PlatformSpeed  = 1.0
	PlatformTravel = 96.0
)

// Platform shuttles back and forth around its home. Attached children ride
// along through origin propagation.
type Platform struct {
	domain.BaseBehavior

	Home     domain.Vector
	Velocity domain.Vector
	Travel   float64
}

func NewPlatform() *Platform {
	return &Platform{Velocity: domain.Vec(PlatformSpeed, 0), Travel: PlatformTravel}
}

func (p *Platform) Kind() enums.EntityType { return enums.EntityTypePlatform }
func (p *Platform) setHome(v domain.Vector) { p.Home = v }

// SetFacing sets the initial travel direction.
func (p *Platform) SetFacing(d enums.Direction) {
	dx, dy := d.Unit()
	speed := p.Velocity.DistanceTo(domain.Vector{})
	p.Velocity = domain.Vec(dx*speed, dy*speed)
}

func (p *Platform) Think(e *domain.Entity) {
	if p.Velocity.IsZero() {
		return
	}
	next := e.Origin().Add(p.Velocity)
	if next.DistanceTo(p.Home) > p.Travel {
		p.Velocity = p.Velocity.Scale(-1)
		next = e.Origin().Add(p.Velocity)
	}
	e.SetOrigin(next)
}

func (p *Platform) WriteState(w domain.StateWriter) {
	w.WriteVector(p.Home)
	w.WriteVector(p.Velocity)
	w.WriteFloat64(p.Travel)
}

func (p *Platform) ReadState(r domain.StateReader) {
	p.Home = r.ReadVector()
	p.Velocity = r.ReadVector()
	p.Travel = r.ReadFloat64()
}
