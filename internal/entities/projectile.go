package entities

import (
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/internal/systems"
)

const (
	ProjectileTTL    = 90
	ProjectileSpeed  = 6.0
	ProjectileDamage = 1
)

// Projectile flies straight until it hits something damageable or its
// time to live runs out. Either way it kills itself inside its own frame.
type Projectile struct {
	domain.BaseBehavior

	// Shooter may be any kind and may be gone by the time the shot lands.
	Shooter   domain.Handle
	Direction enums.Direction
	Speed     float64
	TTL       int32
	Damage    int32
}

func NewProjectile() *Projectile {
	return &Projectile{
		Direction: enums.DirectionRight,
		Speed:     ProjectileSpeed,
		TTL:       ProjectileTTL,
		Damage:    ProjectileDamage,
	}
}

func (p *Projectile) Kind() enums.EntityType { return enums.EntityTypeProjectile }
func (p *Projectile) SetFacing(d enums.Direction) { p.Direction = d }

func (p *Projectile) Think(e *domain.Entity) {
	p.TTL--
	if p.TTL <= 0 {
		e.Kill()
		return
	}
	dx, dy := p.Direction.Unit()
	e.Move(domain.Vec(dx*p.Speed, dy*p.Speed))
}

func (p *Projectile) StartTouch(e, other *domain.Entity) {
	if !e.Alive() || domain.SameEntity(p.Shooter, other) {
		return
	}
	if _, ok := other.Behavior().(systems.Damageable); !ok {
		return
	}
	shooter := domain.Resolve(p.Shooter)
	if shooter != nil && shooter.Kind().IsA(enums.EntityTypeEnemy) == other.Kind().IsA(enums.EntityTypeEnemy) {
		// no friendly fire
		return
	}
	systems.ApplyDamage(shooter, other, p.Damage)
	e.Kill()
}

func (p *Projectile) WriteState(w domain.StateWriter) {
	w.WriteRef(p.Shooter)
	w.WriteUint8(uint8(p.Direction))
	w.WriteFloat64(p.Speed)
	w.WriteInt32(p.TTL)
	w.WriteInt32(p.Damage)
}

func (p *Projectile) ReadState(r domain.StateReader) {
	p.Shooter = r.ReadRef(enums.EntityTypeAny)
	p.Direction = readDirection(r)
	p.Speed = r.ReadFloat64()
	p.TTL = r.ReadInt32()
	p.Damage = r.ReadInt32()
}
