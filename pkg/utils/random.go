package utils

// Multiplier and increment of the 16-bit recurrence
// state' = (state*rngMul + rngInc) mod 2^16.
const (
	rngMul = 25173
	rngInc = 13849
)

// Random is the deterministic 16-bit generator used by the simulation.
// Same seed, same sequence, on every platform: the whole state is one uint16
// and it is persisted in save states.
type Random struct {
	state uint16
}

// NewRandom creates a generator seeded with seed.
func NewRandom(seed uint16) *Random {
	return &Random{state: seed}
}

// Seed resets the generator.
func (r *Random) Seed(seed uint16) { r.state = seed }

// State returns the current internal state (for save states).
func (r *Random) State() uint16 { return r.state }

// Next advances the generator and returns the new 16-bit value.
func (r *Random) Next() uint16 {
	r.state = r.state*rngMul + rngInc
	return r.state
}

// NextValue returns a value in [start, end).
// An empty or inverted range yields start without advancing the generator.
func (r *Random) NextValue(start, end int) int {
	span := end - start
	if span <= 0 {
		return start
	}
	return start + int(r.Next())%span
}

// NextBool returns true roughly half the time.
func (r *Random) NextBool() bool {
	return r.Next()&0x100 != 0
}
