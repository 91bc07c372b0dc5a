package entities

import (
	"errors"
	"testing"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/internal/systems"
)

func TestNew(t *testing.T) {
	kinds := []enums.EntityType{
		enums.EntityTypePlayer,
		enums.EntityTypeEnemy,
		enums.EntityTypeBoss,
		enums.EntityTypeProjectile,
		enums.EntityTypeCheckpoint,
		enums.EntityTypePlatform,
	}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			b, err := New(k)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if b.Kind() != k {
				t.Errorf("Kind = %v, want %v", b.Kind(), k)
			}
			if _, ok := b.(domain.Persistent); !ok {
				t.Errorf("%v is not persistent", k)
			}
			if Hitbox(k).IsEmpty() {
				t.Errorf("%v has an empty hitbox", k)
			}
		})
	}

	if _, err := New(enums.EntityTypeAny); !errors.Is(err, enums.ErrInvalidArgument) {
		t.Errorf("New(Any) err = %v, want ErrInvalidArgument", err)
	}
}

func TestCheckpoint_SetsPlayerCheckpoint(t *testing.T) {
	w := newWorld()
	player := mustSpawn(t, w, enums.EntityTypePlayer, 0, 0)
	first := mustSpawn(t, w, enums.EntityTypeCheckpoint, 0, 0)
	first.Behavior().(*Checkpoint).Order = 2
	w.Commit()

	step(w)

	p := player.Behavior().(*Player)
	if domain.Resolve(p.Checkpoint) != first {
		t.Fatalf("checkpoint = %v, want %v", p.Checkpoint, first)
	}

	// an earlier checkpoint does not replace a later one
	older := mustSpawn(t, w, enums.EntityTypeCheckpoint, 200, 0)
	older.Behavior().(*Checkpoint).Order = 1
	w.Commit()
	player.SetOrigin(domain.Vec(200, 0))
	step(w)

	if domain.Resolve(p.Checkpoint) != first {
		t.Errorf("checkpoint replaced by a lower order one")
	}
}

func TestPlayer_LastAttackerProxy(t *testing.T) {
	w := newWorld()
	player := mustSpawn(t, w, enums.EntityTypePlayer, 0, 0)
	enemy := mustSpawn(t, w, enums.EntityTypeEnemy, 500, 0)
	boss := mustSpawn(t, w, enums.EntityTypeBoss, 1000, 0)
	w.Commit()
	p := player.Behavior().(*Player)

	systems.ApplyDamage(enemy, player, 1)
	if p.LastAttacker != domain.Handle(enemy) {
		t.Errorf("enemy attacker = %T, want direct reference", p.LastAttacker)
	}

	p.Invulnerable = 0
	systems.ApplyDamage(boss, player, 1)
	proxy, ok := domain.AsProxy(p.LastAttacker)
	if !ok {
		t.Fatalf("boss attacker = %T, want a proxy", p.LastAttacker)
	}
	if proxy.Target() != boss || proxy.Expected() != enums.EntityTypeEnemy {
		t.Errorf("proxy = %v/%v", proxy.Target(), proxy.Expected())
	}

	// still invulnerable: the next hit is ignored
	hp := p.Health.HP
	systems.ApplyDamage(enemy, player, 1)
	if p.Health.HP != hp {
		t.Errorf("HP changed during mercy window: %d -> %d", hp, p.Health.HP)
	}
}

func TestPlayer_RespawnAtCheckpoint(t *testing.T) {
	w := newWorld()
	player := mustSpawn(t, w, enums.EntityTypePlayer, 0, 0)
	cp := mustSpawn(t, w, enums.EntityTypeCheckpoint, 300, 0)
	w.Commit()

	p := player.Behavior().(*Player)
	p.Checkpoint = cp
	idx := player.Index()

	systems.ApplyDamage(nil, player, PlayerMaxHP)
	w.Commit()

	if !player.Alive() || !player.InWorld() || player.Index() != idx {
		t.Fatalf("player not respawned: state=%v inWorld=%v index=%v", player.State(), player.InWorld(), player.Index())
	}
	if player.Origin() != cp.Origin() {
		t.Errorf("respawned at %v, want %v", player.Origin(), cp.Origin())
	}
	if p.Lives != PlayerLives-1 || p.Health.HP != PlayerMaxHP {
		t.Errorf("lives=%d hp=%d", p.Lives, p.Health.HP)
	}

	p.Lives = 0
	p.Invulnerable = 0
	systems.ApplyDamage(nil, player, PlayerMaxHP)
	w.Commit()
	if player.State() != enums.LifecycleRemoved {
		t.Errorf("state = %v, want REMOVED", player.State())
	}
}

func TestProjectile_ExpiresInsideItsFrame(t *testing.T) {
	w := newWorld()
	shot := mustSpawn(t, w, enums.EntityTypeProjectile, 0, 0)
	shot.Behavior().(*Projectile).TTL = 3
	w.Commit()

	step(w)
	step(w)
	if !shot.InWorld() {
		t.Fatal("projectile expired early")
	}
	if got := shot.Origin(); got != domain.Vec(2*ProjectileSpeed, 0) {
		t.Errorf("origin = %v", got)
	}

	step(w)
	if shot.State() != enums.LifecycleRemoved || shot.InWorld() {
		t.Errorf("state = %v inWorld=%v, want removed", shot.State(), shot.InWorld())
	}
}

func TestProjectile_HitsEnemy(t *testing.T) {
	w := newWorld()
	player := mustSpawn(t, w, enums.EntityTypePlayer, -500, 0)
	enemy := mustSpawn(t, w, enums.EntityTypeEnemy, 20, 0)
	shot := mustSpawn(t, w, enums.EntityTypeProjectile, 0, 0)
	shot.Behavior().(*Projectile).Shooter = player
	w.Commit()

	step(w)
	step(w)

	if hp := enemy.Behavior().(*Enemy).Health.HP; hp != EnemyMaxHP-ProjectileDamage {
		t.Errorf("enemy HP = %d, want %d", hp, EnemyMaxHP-ProjectileDamage)
	}
	if shot.InWorld() {
		t.Error("projectile survived the hit")
	}
}

func TestEnemy_RespawnKeepsIndex(t *testing.T) {
	w := newWorld()
	enemy := mustSpawn(t, w, enums.EntityTypeEnemy, 40, 0)
	en := enemy.Behavior().(*Enemy)
	en.Delay = 5
	w.Commit()
	idx := enemy.Index()

	if !enemy.Respawnable() {
		t.Fatal("enemy should be respawnable")
	}

	systems.ApplyDamage(nil, enemy, EnemyMaxHP)
	enemy.Move(domain.Vec(30, 0))
	step(w)
	if enemy.State() != enums.LifecycleRemoved || enemy.Index() != idx {
		t.Fatalf("state=%v index=%v after removal", enemy.State(), enemy.Index())
	}

	for i := 0; i < 6 && !enemy.InWorld(); i++ {
		step(w)
	}
	if !enemy.Alive() || !enemy.InWorld() || enemy.Index() != idx {
		t.Fatalf("enemy not respawned: state=%v index=%v", enemy.State(), enemy.Index())
	}
	if en.Health.HP != EnemyMaxHP {
		t.Errorf("HP = %d after respawn", en.Health.HP)
	}
}

func TestBoss_IsNotRespawnable(t *testing.T) {
	w := newWorld()
	boss := mustSpawn(t, w, enums.EntityTypeBoss, 0, 0)
	if boss.Respawnable() {
		t.Error("boss should not respawn")
	}
	if !boss.Kind().IsA(enums.EntityTypeEnemy) {
		t.Error("boss is an enemy")
	}
}

func TestBoss_FiresAtTarget(t *testing.T) {
	w := newWorld()
	mustSpawn(t, w, enums.EntityTypePlayer, 100, 0)
	boss := mustSpawn(t, w, enums.EntityTypeBoss, 0, 0)
	b := boss.Behavior().(*Boss)
	b.Cooldown = 0
	w.Commit()

	step(w)

	var shots []*domain.Entity
	for _, e := range w.Live() {
		if e.Kind() == enums.EntityTypeProjectile {
			shots = append(shots, e)
		}
	}
	if len(shots) != 1 {
		t.Fatalf("%d projectiles live, want 1", len(shots))
	}
	p := shots[0].Behavior().(*Projectile)
	if domain.Resolve(p.Shooter) != boss {
		t.Errorf("shooter = %v, want the boss", p.Shooter)
	}
	if p.Direction != enums.DirectionRight {
		t.Errorf("direction = %v, want RIGHT", p.Direction)
	}
	if b.Cooldown != b.FireEvery {
		t.Errorf("cooldown = %d, want %d", b.Cooldown, b.FireEvery)
	}
}

func TestPlatform_CarriesChildren(t *testing.T) {
	w := newWorld()
	platform := mustSpawn(t, w, enums.EntityTypePlatform, 0, 0)
	rider := mustSpawn(t, w, enums.EntityTypePlayer, 0, -20)
	w.Commit()
	if err := rider.SetParent(platform); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		step(w)
	}

	if got := platform.Origin(); got != domain.Vec(3*PlatformSpeed, 0) {
		t.Errorf("platform origin = %v", got)
	}
	if got := rider.Origin(); got != domain.Vec(3*PlatformSpeed, -20) {
		t.Errorf("rider origin = %v", got)
	}
}
