// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/clock/clock_test.go
// Summary: Tick/millisecond conversion and determinism tests.

package clock

import "testing"

func TestToTicksRoundsUp(t *testing.T) {
	c := NewClock(10) // 10ms per tick
	tests := []struct {
		millis int
		want   uint64
	}{
		{0, 0},
		{5, 1},
		{10, 1},
		{11, 2},
		{100, 10},
		{101, 11},
	}
	for _, tt := range tests {
		if got := c.ToTicks(tt.millis); got != tt.want {
			t.Errorf("ToTicks(%d) = %d, want %d", tt.millis, got, tt.want)
		}
	}
}

func TestAdvanceIsMonotonic(t *testing.T) {
	c := NewClock(1)
	if c.Now() != 0 {
		t.Fatalf("fresh clock should start at tick 0, got %d", c.Now())
	}
	c.Advance(5)
	if c.Now() != 5 {
		t.Fatalf("got tick %d, want 5", c.Now())
	}
	c.Advance(3)
	if c.Now() != 8 {
		t.Fatalf("got tick %d, want 8", c.Now())
	}
}

func TestDeadlineIsRelativeToCurrentTick(t *testing.T) {
	c := NewClock(10)
	c.Advance(4)
	if got := c.Deadline(25); got != 7 {
		t.Fatalf("got deadline %d, want 7 (4 + ceil(25/10))", got)
	}
}

func TestRNGIsDeterministicForSameSeed(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 20; i++ {
		va, vb := a.Int63(), b.Int63()
		if va != vb {
			t.Fatalf("draw %d diverged: %d != %d", i, va, vb)
		}
	}
}

func TestRNGDifferentSeedsDiverge(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different sequences")
	}
}
