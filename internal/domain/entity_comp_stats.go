package domain

// Health is the hit point pool carried by damageable kinds.
type Health struct {
	HP    int32
	MaxHP int32
}

// NewHealth returns a full pool.
func NewHealth(maxHP int32) Health {
	return Health{HP: maxHP, MaxHP: maxHP}
}

// Depleted reports whether the pool is empty.
func (h *Health) Depleted() bool { return h.HP <= 0 }

// TakeDamage removes amount HP. Returns true when this hit emptied the pool.
func (h *Health) TakeDamage(amount int32) bool {
	if h.HP <= 0 {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	h.HP -= amount
	if h.HP <= 0 {
		h.HP = 0
		return true
	}
	return false
}

// Heal restores up to MaxHP. An empty pool stays empty.
func (h *Health) Heal(amount int32) {
	if h.HP <= 0 {
		return
	}
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
}

// Reset refills the pool, used on respawn.
func (h *Health) Reset() { h.HP = h.MaxHP }

func (h *Health) WriteState(w StateWriter) {
	w.WriteInt32(h.HP)
	w.WriteInt32(h.MaxHP)
}

func (h *Health) ReadState(r StateReader) {
	h.HP = r.ReadInt32()
	h.MaxHP = r.ReadInt32()
}
