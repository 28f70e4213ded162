// Package rng isolates random draws so simulations and tests can substitute a
// seeded or fixed source.
package rng

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a deterministic source for seed. A zero seed draws one from
// crypto/rand.
func New(seed int64) Source {
	if seed == 0 {
		seed = RandomSeed()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomSeed returns an unpredictable non-zero seed.
func RandomSeed() int64 {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed
}

// Sequence replays fixed values in order and wraps around at the end.
type Sequence struct {
	values []float64
	next   int
}

func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}
