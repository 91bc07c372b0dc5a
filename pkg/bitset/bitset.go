package bitset

import (
	"fmt"
	"math/bits"
)

const (
	wordBits  = 64
	wordShift = 6 // log2(wordBits)
	wordMask  = wordBits - 1
)

// FixedBitSet is a bit vector whose size is fixed at construction and
// rounded up to a power of two (never below one word).
//
// Layout is the conventional one: bit i lives in word i/64 at offset i%64.
// Out-of-range indices are a sizing bug upstream, so every accessor panics
// instead of returning an error.
type FixedBitSet struct {
	words []uint64
	size  int
}

// New creates a set able to hold at least n bits.
func New(n int) *FixedBitSet {
	if n < 0 {
		panic(fmt.Sprintf("bitset: negative size %d", n))
	}
	size := wordBits
	for size < n {
		size <<= 1
	}
	return &FixedBitSet{
		words: make([]uint64, size>>wordShift),
		size:  size,
	}
}

// Len returns the number of addressable bits.
func (b *FixedBitSet) Len() int { return b.size }

func (b *FixedBitSet) check(i int) {
	if i < 0 || i >= b.size {
		panic(fmt.Sprintf("bitset: index %d out of range [0, %d)", i, b.size))
	}
}

// Set turns bit i on.
func (b *FixedBitSet) Set(i int) {
	b.check(i)
	b.words[i>>wordShift] |= uint64(1) << uint(i&wordMask)
}

// Reset turns bit i off.
func (b *FixedBitSet) Reset(i int) {
	b.check(i)
	b.words[i>>wordShift] &^= uint64(1) << uint(i&wordMask)
}

// Toggle flips bit i.
func (b *FixedBitSet) Toggle(i int) {
	b.check(i)
	b.words[i>>wordShift] ^= uint64(1) << uint(i&wordMask)
}

// Test reports whether bit i is on.
func (b *FixedBitSet) Test(i int) bool {
	b.check(i)
	return b.words[i>>wordShift]&(uint64(1)<<uint(i&wordMask)) != 0
}

// Clear turns every bit off.
func (b *FixedBitSet) Clear() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// Count returns the number of bits that are on.
func (b *FixedBitSet) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// FirstClear returns the lowest index whose bit is off, or -1 when the set is full.
func (b *FixedBitSet) FirstClear() int {
	for wi, w := range b.words {
		if w == ^uint64(0) {
			continue
		}
		return wi<<wordShift + bits.TrailingZeros64(^w)
	}
	return -1
}
