// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/clock/rng.go
// Summary: Seeded PRNG wrapper used everywhere a run needs randomness —
// currently trace/run ID generation — so that the same seed always
// produces the same sequence.

package clock

import "math/rand"

// RNG is a seeded pseudo-random source. It is never backed by
// crypto/rand or an unseeded global source: every draw must be
// reproducible from the scenario's seed.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates an RNG seeded deterministically. The same seed always
// produces the same sequence of draws, independent of wall-clock time.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Int63 returns a non-negative pseudo-random 63-bit integer.
func (g *RNG) Int63() int64 { return g.r.Int63() }

// Intn returns a pseudo-random integer in [0, n).
func (g *RNG) Intn(n int) int { return g.r.Intn(n) }

// Uint64 returns a pseudo-random 64-bit value, suitable for feeding into
// an ID generator's entropy source.
func (g *RNG) Uint64() uint64 { return g.r.Uint64() }

// Float64 returns a pseudo-random value in [0.0, 1.0).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// Bytes fills buf with pseudo-random bytes, for callers that need a fixed
// amount of deterministic entropy (e.g. an ULID's random component).
func (g *RNG) Bytes(buf []byte) {
	g.r.Read(buf)
}
