// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen_test.go
// Summary: Screen construction, clear/hash round-trip, and resize tests.

package vt

import "testing"

func TestFreshScreenIsBlank(t *testing.T) {
	h := NewTestHarness(10, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 10; c++ {
			if cell := h.Cell(r, c); cell.Rune != ' ' {
				t.Fatalf("cell (%d,%d) = %q, want space", r, c, cell.Rune)
			}
		}
	}
}

func TestClearMatchesFreshScreenHash(t *testing.T) {
	h := NewTestHarness(10, 4)
	fresh := h.Screen.StateHash()

	h.Feed("\x1b[31mhello\x1b[5;5Hworld")
	if h.Screen.StateHash() == fresh {
		t.Fatal("expected hash to change after writing content")
	}

	h.Screen.Clear()
	if got := h.Screen.StateHash(); got != fresh {
		t.Fatalf("cleared screen hash %d != fresh screen hash %d", got, fresh)
	}
}

func TestResizeShrinkRowsFeedsScrollback(t *testing.T) {
	h := NewTestHarness(10, 4)
	h.Feed("line1\r\nline2\r\nline3\r\nline4")
	h.Screen.Resize(10, 2)
	if h.Screen.Rows() != 2 {
		t.Fatalf("got %d rows, want 2", h.Screen.Rows())
	}
	if hist := h.HistoryLength(); hist == 0 {
		t.Fatal("expected shrinking rows to feed scrollback")
	}
}

func TestResizeShrinkColsTruncatesNoReflow(t *testing.T) {
	h := NewTestHarness(10, 2)
	h.Feed("abcdefghij")
	h.Screen.Resize(5, 2)
	got := h.RowText(0)
	if got != "abcde" {
		t.Fatalf("got %q, want %q", got, "abcde")
	}
}

func TestDirtyTrackingReportsOnlyMutatedRows(t *testing.T) {
	h := NewTestHarness(10, 4)
	h.Screen.TakeDirty() // discard the initial all-dirty state
	h.Feed("\x1b[3;1Hx")
	dirty := h.Screen.TakeDirty()
	if len(dirty) != 1 || dirty[0] != 2 {
		t.Fatalf("got dirty rows %v, want [2]", dirty)
	}
}

func TestDirtyTrackingDisabledReturnsFullRange(t *testing.T) {
	h := NewTestHarness(5, 3, WithDirtyTrackingDisabled())
	h.Screen.TakeDirty()
	h.Feed("x")
	dirty := h.Screen.TakeDirty()
	if len(dirty) != 3 {
		t.Fatalf("got %d dirty rows, want 3 (full range)", len(dirty))
	}
}

func TestAltScreenIsolatesContent(t *testing.T) {
	h := NewTestHarness(10, 3)
	h.Feed("primary")
	h.Feed("\x1b[?1049h")
	if !h.Screen.InAltScreen() {
		t.Fatal("expected alt screen to be active")
	}
	h.Feed("altcontent")
	if got := h.RowText(0); got[:10] != "altcontent" {
		t.Fatalf("alt screen row = %q", got)
	}
	h.Feed("\x1b[?1049l")
	if h.Screen.InAltScreen() {
		t.Fatal("expected alt screen to be inactive after restore")
	}
	if got := h.RowText(0); got[:7] != "primary" {
		t.Fatalf("primary screen row after restore = %q, want prefix 'primary'", got)
	}
}

func TestOSCTitleChange(t *testing.T) {
	var got string
	h := NewTestHarness(10, 3, WithTitleChangeHandler(func(s string) { got = s }))
	h.Feed("\x1b]0;my title\x07")
	if h.Screen.Title() != "my title" {
		t.Fatalf("Title() = %q, want %q", h.Screen.Title(), "my title")
	}
	if got != "my title" {
		t.Fatalf("callback got %q, want %q", got, "my title")
	}
}

func TestShellIntegrationMarkers(t *testing.T) {
	h := NewTestHarness(10, 3)
	h.Feed("\x1b]133;A\x07")
	if !h.Screen.PromptActive() {
		t.Fatal("expected PromptActive after OSC 133;A")
	}
	h.Feed("\x1b]133;B\x07")
	if h.Screen.PromptActive() || !h.Screen.InputActive() {
		t.Fatal("expected InputActive after OSC 133;B")
	}
	h.Feed("\x1b]133;C\x07")
	if !h.Screen.CommandActive() {
		t.Fatal("expected CommandActive after OSC 133;C")
	}
	h.Feed("\x1b]133;D\x07")
	if h.Screen.CommandActive() {
		t.Fatal("expected CommandActive cleared after OSC 133;D")
	}
}
