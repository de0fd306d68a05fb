// Package rng holds the random helpers shared by the bin populator and the grab resolver.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Roller yields floats in [0, 1). *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// New returns a generator seeded from crypto/rand, falling back to the clock.
func New() *rand.Rand {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(buf[:]))))
}

// NewSeeded returns a reproducible generator.
func NewSeeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Between returns a uniform integer in [lo, hi], both ends inclusive.
func Between(r *rand.Rand, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Shuffled returns a Fisher-Yates shuffled copy of s. The input is untouched.
func Shuffled[T any](r *rand.Rand, s []T) []T {
	out := append([]T(nil), s...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Chance runs one Bernoulli trial. p <= 0 never hits and p >= 1 always hits;
// neither consumes a roll.
func Chance(p float64, roll Roller) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return roll.Float64() < p
}

// Sequence replays fixed rolls, then repeats the last one. Used to script
// outcomes in tests and simulations.
type Sequence struct {
	rolls []float64
	next  int
}

// NewSequence builds a Sequence from the given rolls.
func NewSequence(rolls ...float64) *Sequence {
	return &Sequence{rolls: rolls}
}

// Float64 returns the next scripted roll, or 0 when none were given.
func (s *Sequence) Float64() float64 {
	if len(s.rolls) == 0 {
		return 0
	}
	if s.next >= len(s.rolls) {
		return s.rolls[len(s.rolls)-1]
	}
	v := s.rolls[s.next]
	s.next++
	return v
}

// Used reports how many scripted rolls have been consumed.
func (s *Sequence) Used() int { return s.next }
