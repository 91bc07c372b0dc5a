package systems

import (
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Damageable is implemented by behaviors that own a hit point pool.
type Damageable interface {
	HealthPool() *domain.Health
}

// Attacked is implemented by behaviors that remember who hit them last.
type Attacked interface {
	OnAttacked(self, attacker *domain.Entity)
}

// Guarded is implemented by behaviors that can ignore hits for a while.
type Guarded interface {
	IsInvulnerable() bool
}

// ApplyDamage hits target for amount and kills it when the pool empties.
// Returns true when this hit was lethal. Non-damageable, guarded or dead
// targets are ignored.
func ApplyDamage(attacker, target *domain.Entity, amount int32) bool {
	if target == nil || !target.Alive() {
		return false
	}
	d, ok := target.Behavior().(Damageable)
	if !ok {
		return false
	}
	if g, ok := target.Behavior().(Guarded); ok && g.IsInvulnerable() {
		return false
	}

	hp := d.HealthPool()
	hpBefore := hp.HP
	died := hp.TakeDamage(amount)

	if a, ok := target.Behavior().(Attacked); ok && attacker != nil {
		a.OnAttacked(target, attacker)
	}

	logger.Component("combat_system").WithFields(logrus.Fields{
		"attacker":  attacker,
		"target":    target,
		"damage":    amount,
		"hp_before": hpBefore,
		"hp_after":  hp.HP,
		"died":      died,
	}).Debug("damage applied")

	if died {
		target.Kill()
	}
	return died
}
