// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/testharness.go
// Summary: Small helper for feeding a Parser+Screen pair fixed byte
// sequences in tests, and reading back cell/cursor state without the
// caller needing to know the grid's internal shape.

package vt

// TestHarness pairs a Parser and Screen for convenient use from tests: it
// exposes byte-feeding and small assertions helpers instead of making
// every test construct the pair itself.
type TestHarness struct {
	Screen *Screen
	Parser *Parser
}

// NewTestHarness builds a harness with a cols x rows screen.
func NewTestHarness(cols, rows int, opts ...Option) *TestHarness {
	scr := NewScreen(cols, rows, opts...)
	return &TestHarness{Screen: scr, Parser: NewParser(scr)}
}

// Feed parses s as raw bytes through the parser.
func (h *TestHarness) Feed(s string) { h.Parser.Parse([]byte(s)) }

// FeedBytes parses raw bytes through the parser.
func (h *TestHarness) FeedBytes(b []byte) { h.Parser.Parse(b) }

// Cell returns the cell at (row, col).
func (h *TestHarness) Cell(row, col int) Cell { return h.Screen.Cell(row, col) }

// CursorPos returns the cursor's current row, col.
func (h *TestHarness) CursorPos() (int, int) {
	c := h.Screen.Cursor()
	return c.Row, c.Col
}

// RowText returns row's content as a string, skipping wide-cell
// placeholders; trailing spaces are kept.
func (h *TestHarness) RowText(row int) string { return h.Screen.RowText(row) }

// ScrollRegion returns the current scroll region.
func (h *TestHarness) ScrollRegion() (int, int) { return h.Screen.ScrollRegion() }

// Size returns the screen's cols, rows.
func (h *TestHarness) Size() (int, int) { return h.Screen.Cols(), h.Screen.Rows() }

// HistoryLength returns the number of rows currently in scrollback.
func (h *TestHarness) HistoryLength() int { return len(h.Screen.scrollback) }
