// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen_scroll.go
// Summary: Scroll-region-honoring line scrolling and scrollback feed.

package vt

// scrollUp shifts n rows of the scroll region up (content moves toward the
// top margin), feeding evicted rows into scrollback when the region spans
// the whole screen width and this is the primary grid.
func (s *Screen) scrollUp(n int) {
	if n <= 0 {
		return
	}
	g := s.activeGrid()
	top, bottom := s.scrollTop, s.scrollBottom
	left, right := s.scrollLeft, s.scrollRight
	// Only a scroll that evicts the screen's actual top row feeds
	// scrollback; a DECSTBM-restricted region starting below row 0 never
	// does, matching how real terminals treat scroll-region scrolling.
	fullWidth := left == 0 && right == s.cols-1 && top == 0
	for i := 0; i < n; i++ {
		if fullWidth {
			row := make([]Cell, len(g[top]))
			copy(row, g[top])
			s.pushScrollback(row)
		}
		for r := top; r < bottom; r++ {
			copy(g[r][left:right+1], g[r+1][left:right+1])
		}
		blank := s.blankCell()
		for c := left; c <= right; c++ {
			g[bottom][c] = blank
		}
	}
	for r := top; r <= bottom; r++ {
		s.MarkDirty(r)
	}
}

// scrollDown shifts n rows of the scroll region down (content moves toward
// the bottom margin); the new rows at the top are blanked.
func (s *Screen) scrollDown(n int) {
	if n <= 0 {
		return
	}
	g := s.activeGrid()
	top, bottom := s.scrollTop, s.scrollBottom
	left, right := s.scrollLeft, s.scrollRight
	for i := 0; i < n; i++ {
		for r := bottom; r > top; r-- {
			copy(g[r][left:right+1], g[r-1][left:right+1])
		}
		blank := s.blankCell()
		for c := left; c <= right; c++ {
			g[top][c] = blank
		}
	}
	for r := top; r <= bottom; r++ {
		s.MarkDirty(r)
	}
}

// setScrollRegion implements DECSTBM (CSI Pt ; Pb r). Out-of-range or
// inverted arguments reset to the full screen.
func (s *Screen) setScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= s.rows || bottom < 0 {
		bottom = s.rows - 1
	}
	if top >= bottom {
		top, bottom = 0, s.rows-1
	}
	s.scrollTop, s.scrollBottom = top, bottom
	s.moveCursor(0, 0)
}

// setMarginRegion implements DECSLRM (CSI Pl ; Pr s, only meaningful when
// left/right margin mode is enabled).
func (s *Screen) setMarginRegion(left, right int) {
	if left < 0 {
		left = 0
	}
	if right >= s.cols || right < 0 {
		right = s.cols - 1
	}
	if left >= right {
		left, right = 0, s.cols-1
	}
	s.scrollLeft, s.scrollRight = left, right
	s.moveCursor(0, 0)
}
