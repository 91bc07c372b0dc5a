package entities

import (
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	PlayerMaxHP        = 16
	PlayerLives        = 2
	PlayerInvulnerable = 60 // ticks of mercy after a hit
)

// Player is the controlled character. It comes back at its last checkpoint
// while it has lives left.
type Player struct {
	domain.BaseBehavior

	Health       domain.Health
	Lives        int32
	Facing       enums.Direction
	Invulnerable int32
	Home         domain.Vector

	// Checkpoint is absent until the first checkpoint is reached.
	Checkpoint domain.Handle
	// LastAttacker is typed as an enemy; a boss resolves through a proxy.
	LastAttacker domain.Handle
}

func NewPlayer() *Player {
	return &Player{
		Health: domain.NewHealth(PlayerMaxHP),
		Lives:  PlayerLives,
		Facing: enums.DirectionRight,
	}
}

func (p *Player) Kind() enums.EntityType { return enums.EntityTypePlayer }
func (p *Player) HealthPool() *domain.Health { return &p.Health }
func (p *Player) SetFacing(d enums.Direction) { p.Facing = d }
func (p *Player) setHome(v domain.Vector) { p.Home = v }
func (p *Player) IsInvulnerable() bool { return p.Invulnerable > 0 }

func (p *Player) Think(*domain.Entity) {
	if p.Invulnerable > 0 {
		p.Invulnerable--
	}
}

// OnAttacked remembers the attacker and starts the mercy window.
func (p *Player) OnAttacked(self, attacker *domain.Entity) {
	p.LastAttacker = ref(attacker, enums.EntityTypeEnemy)
	p.Invulnerable = PlayerInvulnerable
}

// ReachCheckpoint keeps the checkpoint with the highest order.
func (p *Player) ReachCheckpoint(self, cp *domain.Entity) bool {
	c, ok := cp.Behavior().(*Checkpoint)
	if !ok {
		return false
	}
	if cur := domain.Resolve(p.Checkpoint); cur != nil {
		if prev, ok := cur.Behavior().(*Checkpoint); ok && prev.Order >= c.Order {
			return false
		}
	}

	p.Checkpoint = ref(cp, enums.EntityTypeCheckpoint)
	logger.Component("player").WithFields(logrus.Fields{
		"player":     self,
		"checkpoint": cp,
		"order":      c.Order,
	}).Info("checkpoint reached")
	return true
}

// Death respawns the player at its checkpoint (or where it started) while
// lives remain. The removal queued by Kill is then skipped by the commit.
func (p *Player) Death(e *domain.Entity) {
	if p.Lives <= 0 {
		logger.Component("player").WithField("player", e).Info("game over")
		return
	}
	p.Lives--
	p.Health.Reset()
	p.Invulnerable = PlayerInvulnerable

	at := p.Home
	if cp := domain.Resolve(p.Checkpoint); cp != nil {
		at = cp.Origin()
	}
	e.SetOrigin(at)
	if err := e.Spawn(); err != nil {
		logger.Component("player").WithError(err).Error("respawn failed")
	}
}

func (p *Player) WriteState(w domain.StateWriter) {
	p.Health.WriteState(w)
	w.WriteInt32(p.Lives)
	w.WriteUint8(uint8(p.Facing))
	w.WriteInt32(p.Invulnerable)
	w.WriteVector(p.Home)
	w.WriteRef(p.Checkpoint)
	w.WriteRef(p.LastAttacker)
}

func (p *Player) ReadState(r domain.StateReader) {
	p.Health.ReadState(r)
	p.Lives = r.ReadInt32()
	p.Facing = readDirection(r)
	p.Invulnerable = r.ReadInt32()
	p.Home = r.ReadVector()
	p.Checkpoint = r.ReadRef(enums.EntityTypeCheckpoint)
	p.LastAttacker = r.ReadRef(enums.EntityTypeEnemy)
}
