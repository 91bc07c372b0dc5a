package entities

import (
	"math"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/internal/systems"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	EnemyMaxHP        = 4
	EnemySpeed        = 1.0
	EnemyAggroRange   = 96.0
	EnemyLeash        = 64.0
	EnemyDamage       = 2
	EnemyRespawnDelay = 180

	BossMaxHP      = 32
	BossFireEvery  = 45
	BossShotSpeed  = 4.0
	BossShotDamage = 3
)

// Enemy chases the nearest player in range and wanders around its home
// otherwise. It respawns at home some ticks after dying.
type Enemy struct {
	domain.BaseBehavior

	Health        domain.Health
	Home          domain.Vector
	Facing        enums.Direction
	Speed         float64
	AggroRange    float64
	ContactDamage int32
	Delay         int64
	DiedAtTick    int64

	// Target is absent while no player is in range.
	Target domain.Handle
}

func NewEnemy() *Enemy {
	return &Enemy{
		Health:        domain.NewHealth(EnemyMaxHP),
		Facing:        enums.DirectionLeft,
		Speed:         EnemySpeed,
		AggroRange:    EnemyAggroRange,
		ContactDamage: EnemyDamage,
		Delay:         EnemyRespawnDelay,
	}
}

func (en *Enemy) Kind() enums.EntityType { return enums.EntityTypeEnemy }
func (en *Enemy) HealthPool() *domain.Health { return &en.Health }
func (en *Enemy) SetFacing(d enums.Direction) { en.Facing = d }
func (en *Enemy) setHome(v domain.Vector) { en.Home = v }
func (en *Enemy) RespawnDelay() int64 { return en.Delay }
func (en *Enemy) DiedAt() int64 { return en.DiedAtTick }

func (en *Enemy) Think(e *domain.Entity) {
	target := domain.Resolve(en.Target)
	if target == nil || !target.Alive() || target.Origin().DistanceTo(e.Origin()) > en.AggroRange {
		en.Target = nil
		target = en.acquire(e)
	}

	var step float64
	switch {
	case target != nil:
		step = math.Copysign(en.Speed, target.Origin().X-e.Origin().X)
	case math.Abs(e.Origin().X-en.Home.X) > EnemyLeash:
		step = math.Copysign(en.Speed, en.Home.X-e.Origin().X)
	default:
		step = float64(e.World().Rng.NextValue(-1, 2)) * en.Speed
	}

	if step < 0 {
		en.Facing = enums.DirectionLeft
	} else if step > 0 {
		en.Facing = enums.DirectionRight
	}
	if step != 0 {
		e.Move(domain.Vec(step, 0))
	}
}

// acquire picks the nearest live player within range, lowest index on ties.
func (en *Enemy) acquire(e *domain.Entity) *domain.Entity {
	var best *domain.Entity
	bestDist := en.AggroRange
	e.World().EachLive(func(o *domain.Entity) {
		if o.Kind() != enums.EntityTypePlayer || !o.Alive() {
			return
		}
		if d := o.Origin().DistanceTo(e.Origin()); d <= bestDist && (best == nil || d < bestDist) {
			best, bestDist = o, d
		}
	})
	if best != nil {
		en.Target = ref(best, enums.EntityTypePlayer)
	}
	return best
}

func (en *Enemy) StartTouch(e, other *domain.Entity) {
	if other.Kind() == enums.EntityTypePlayer {
		systems.ApplyDamage(e, other, en.ContactDamage)
	}
}

func (en *Enemy) Death(e *domain.Entity) {
	en.DiedAtTick = e.World().Tick()
	en.Target = nil
	logger.Component("enemy").WithFields(logrus.Fields{
		"enemy": e,
		"tick":  en.DiedAtTick,
	}).Debug("enemy died")
}

// Revive puts the enemy back home at full health.
func (en *Enemy) Revive(e *domain.Entity) {
	en.Health.Reset()
	en.Target = nil
	e.SetOrigin(en.Home)
}

func (en *Enemy) WriteState(w domain.StateWriter) {
	en.Health.WriteState(w)
	w.WriteVector(en.Home)
	w.WriteUint8(uint8(en.Facing))
	w.WriteFloat64(en.Speed)
	w.WriteFloat64(en.AggroRange)
	w.WriteInt32(en.ContactDamage)
	w.WriteInt64(en.Delay)
	w.WriteInt64(en.DiedAtTick)
	w.WriteRef(en.Target)
}

func (en *Enemy) ReadState(r domain.StateReader) {
	en.Health.ReadState(r)
	en.Home = r.ReadVector()
	en.Facing = readDirection(r)
	en.Speed = r.ReadFloat64()
	en.AggroRange = r.ReadFloat64()
	en.ContactDamage = r.ReadInt32()
	en.Delay = r.ReadInt64()
	en.DiedAtTick = r.ReadInt64()
	en.Target = r.ReadRef(enums.EntityTypePlayer)
}

// Boss is an Enemy that also shoots at its target. It does not respawn.
type Boss struct {
	Enemy

	FireEvery int32
	Cooldown  int32
}

func NewBoss() *Boss {
	en := NewEnemy()
	en.Health = domain.NewHealth(BossMaxHP)
	en.Speed = EnemySpeed / 2
	en.AggroRange = EnemyAggroRange * 2
	en.Delay = 0
	return &Boss{Enemy: *en, FireEvery: BossFireEvery, Cooldown: BossFireEvery}
}

func (b *Boss) Kind() enums.EntityType { return enums.EntityTypeBoss }

func (b *Boss) Think(e *domain.Entity) {
	b.Enemy.Think(e)

	if b.Cooldown > 0 {
		b.Cooldown--
		return
	}
	target := domain.Resolve(b.Target)
	if target == nil {
		return
	}

	shot, err := Spawn(e.World(), enums.EntityTypeProjectile, e.Origin(), b.Facing)
	if err != nil {
		logger.Component("boss").WithError(err).Warn("cannot fire")
		return
	}
	p := shot.Behavior().(*Projectile)
	p.Shooter = ref(e, enums.EntityTypeAny)
	p.Speed = BossShotSpeed
	p.Damage = BossShotDamage
	b.Cooldown = b.FireEvery
}

func (b *Boss) WriteState(w domain.StateWriter) {
	b.Enemy.WriteState(w)
	w.WriteInt32(b.FireEvery)
	w.WriteInt32(b.Cooldown)
}

func (b *Boss) ReadState(r domain.StateReader) {
	b.Enemy.ReadState(r)
	b.FireEvery = r.ReadInt32()
	b.Cooldown = r.ReadInt32()
}
