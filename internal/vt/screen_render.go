// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen_render.go
// Summary: Renders the active grid to plain text for regex-based
// assertions and invariants. Rendering never touches color or attributes:
// it exists purely so a scenario can match text against what a human
// would see.

package vt

import "strings"

// RowText returns row's visible text, skipping the placeholder half of any
// wide cell. Trailing spaces are preserved, so a row without wide cells is
// exactly Cols() runes long; each wide cell shortens it by one rune.
func (s *Screen) RowText(row int) string {
	runes := make([]rune, 0, s.cols)
	for c := 0; c < s.cols; c++ {
		cell := s.Cell(row, c)
		if cell.IsWideRight() {
			continue
		}
		runes = append(runes, cell.Rune)
	}
	return string(runes)
}

// Text renders the whole active grid for regex-based matching: one line
// per row with trailing spaces trimmed, and trailing blank rows dropped
// entirely.
func (s *Screen) Text() string {
	lines := make([]string, s.rows)
	for r := 0; r < s.rows; r++ {
		lines[r] = strings.TrimRight(s.RowText(r), " ")
	}
	last := len(lines)
	for last > 0 && lines[last-1] == "" {
		last--
	}
	return strings.Join(lines[:last], "\n")
}
