// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/cursor_test.go
// Summary: Cursor motion tests (CUU, CUP, autowrap, DECSC/DECRC, CR/LF).

package vt

import "testing"

func TestCursorUp(t *testing.T) {
	tests := []struct {
		name      string
		initial   string
		seq       string
		wantRow   int
		wantCol   int
	}{
		{"default 1", "\x1b[11;1H", "\x1b[A", 9, 0},
		{"explicit 5", "\x1b[11;1H", "\x1b[5A", 5, 0},
		{"clamps at top", "\x1b[5;1H", "\x1b[100A", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHarness(80, 24)
			h.Feed(tt.initial)
			h.Feed(tt.seq)
			row, col := h.CursorPos()
			if row != tt.wantRow || col != tt.wantCol {
				t.Fatalf("got (%d,%d), want (%d,%d)", row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestCursorPositionAbsolute(t *testing.T) {
	h := NewTestHarness(80, 24)
	h.Feed("\x1b[10;20H")
	row, col := h.CursorPos()
	if row != 9 || col != 19 {
		t.Fatalf("got (%d,%d), want (9,19)", row, col)
	}
}

func TestCursorPositionClampsToScreen(t *testing.T) {
	h := NewTestHarness(10, 5)
	h.Feed("\x1b[100;100H")
	row, col := h.CursorPos()
	if row != 4 || col != 9 {
		t.Fatalf("got (%d,%d), want (4,9)", row, col)
	}
}

func TestAutowrapAdvancesToNextLine(t *testing.T) {
	h := NewTestHarness(5, 3)
	h.Feed("abcdef")
	row, col := h.CursorPos()
	if row != 1 || col != 1 {
		t.Fatalf("got (%d,%d), want (1,1)", row, col)
	}
	if got := h.RowText(0); got != "abcde" {
		t.Fatalf("row0 = %q, want %q", got, "abcde")
	}
	if got := h.RowText(1); got[:1] != "f" {
		t.Fatalf("row1 = %q, want prefix 'f'", got)
	}
}

func TestAutowrapDisabledClampsAtMargin(t *testing.T) {
	h := NewTestHarness(5, 3)
	h.Feed("\x1b[?7l")
	h.Feed("abcdef")
	row, col := h.CursorPos()
	if row != 0 || col != 4 {
		t.Fatalf("got (%d,%d), want (0,4)", row, col)
	}
}

func TestDECSCDECRCRoundTrip(t *testing.T) {
	h := NewTestHarness(20, 10)
	h.Feed("\x1b[5;5H\x1b[31m")
	h.Feed("\x1b7") // ESC 7 — DECSC
	h.Feed("\x1b[1;1H\x1b[0m")
	h.Feed("\x1b8") // ESC 8 — DECRC
	row, col := h.CursorPos()
	if row != 4 || col != 4 {
		t.Fatalf("got (%d,%d), want (4,4)", row, col)
	}
	if h.Screen.pen.FG.Mode != ColorIndexed16 || h.Screen.pen.FG.Index != 1 {
		t.Fatalf("pen not restored: %+v", h.Screen.pen)
	}
}

func TestCarriageReturnLineFeed(t *testing.T) {
	h := NewTestHarness(10, 3)
	h.Feed("\x1b[2;5H")
	h.Feed("\r\n")
	row, col := h.CursorPos()
	if row != 2 || col != 0 {
		t.Fatalf("got (%d,%d), want (2,0)", row, col)
	}
}

func TestLineFeedAtBottomScrolls(t *testing.T) {
	h := NewTestHarness(10, 3)
	h.Feed("row0\r\nrow1\r\nrow2\r\n")
	if got := h.RowText(0); got[:4] != "row1" {
		t.Fatalf("row0 = %q, want prefix row1 (scrolled)", got)
	}
}
