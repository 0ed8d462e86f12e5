// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/hash_test.go
// Summary: StateHash equality/inequality under cell and pen differences.

package vt

import "testing"

func TestStateHashStableAcrossEquivalentRuns(t *testing.T) {
	a := NewTestHarness(10, 3)
	b := NewTestHarness(10, 3)
	a.Feed("hello\x1b[31mred")
	b.Feed("hello\x1b[31mred")
	if a.Screen.StateHash() != b.Screen.StateHash() {
		t.Fatal("identical byte streams produced different hashes")
	}
}

func TestStateHashDiffersOnPendingPen(t *testing.T) {
	a := NewTestHarness(10, 3)
	b := NewTestHarness(10, 3)
	a.Feed("hello")
	b.Feed("hello")
	b.Feed("\x1b[31m")
	if a.Screen.StateHash() == b.Screen.StateHash() {
		t.Fatal("a pending SGR change with no printed character should change the hash")
	}
}

func TestStateHashDiffersOnCellContent(t *testing.T) {
	a := NewTestHarness(10, 3)
	b := NewTestHarness(10, 3)
	a.Feed("hello")
	b.Feed("hellp")
	if a.Screen.StateHash() == b.Screen.StateHash() {
		t.Fatal("differing cell content should change the hash")
	}
}
