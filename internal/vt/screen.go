// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen.go
// Summary: Screen model — the cell grid, cursor, and mode state that the
// parser's events mutate. A plain rows×cols grid, a bounded scrollback
// ring, and one alternate grid.
// Usage: Construct with NewScreen(cols, rows, opts...); feed it a Parser's
// events by passing it as the Handler.

package vt

import "fmt"

// Cursor is the screen's cursor position and visibility/style.
type Cursor struct {
	Row, Col int
	Visible  bool
	Style    int // 0=block, 1=underline, 2=bar (DECSCUSR); not otherwise interpreted
}

type savedCursorState struct {
	cursor     Cursor
	pen        Pen
	originMode bool
	autowrap   bool
	valid      bool
}

// Option configures a Screen at construction time.
type Option func(*Screen)

// WithScrollbackCapacity bounds the scrollback ring's row count.
func WithScrollbackCapacity(n int) Option {
	return func(s *Screen) { s.scrollbackCap = n }
}

// WithDirtyTrackingDisabled turns off per-row dirty tracking; queries then
// report the full row range.
func WithDirtyTrackingDisabled() Option {
	return func(s *Screen) { s.dirtyTrackingEnabled = false }
}

// WithTitleChangeHandler registers a callback fired on OSC 0/1/2.
func WithTitleChangeHandler(fn func(string)) Option {
	return func(s *Screen) { s.onTitleChange = fn }
}

// Screen is a rectangular grid of cells plus cursor/mode state. It
// implements Handler; the parser never reaches back into anything else.
type Screen struct {
	rows, cols int

	grid    [][]Cell
	altGrid [][]Cell
	usingAlt bool

	cursor      Cursor
	savedMain   savedCursorState
	savedAlt    savedCursorState
	savedAltCur Cursor

	pen Pen

	scrollTop, scrollBottom int
	scrollLeft, scrollRight int
	leftRightMarginMode     bool

	originMode     bool
	autowrap       bool
	insertMode     bool
	appCursorKeys  bool
	bracketedPaste bool
	mouseMode      int // 0 = off, else 1000/1002/1003
	mouseSGR       bool

	pendingWrap bool

	dirty                 map[int]bool
	dirtyTrackingEnabled  bool
	allDirty              bool

	scrollback    [][]Cell
	scrollbackCap int

	title             string
	onTitleChange     func(string)
	promptActive      bool
	inputActive       bool
	commandActive     bool

	lastGraphicChar rune

	defaultFG, defaultBG Color

	// OSC/APC/DCS accumulation buffers (string-state byte collection).
	oscBuf []byte
	apcBuf []byte
	dcsBuf []byte
}

// NewScreen creates a Screen of the given geometry with default state.
func NewScreen(cols, rows int, opts ...Option) *Screen {
	s := &Screen{
		rows: rows, cols: cols,
		pen:                  DefaultPen,
		autowrap:             true,
		cursor:               Cursor{Visible: true},
		scrollTop:            0,
		scrollBottom:         rows - 1,
		scrollLeft:           0,
		scrollRight:          cols - 1,
		dirty:                make(map[int]bool),
		dirtyTrackingEnabled: true,
		scrollbackCap:        10000,
		defaultFG:            DefaultColor,
		defaultBG:            DefaultColor,
		allDirty:             true,
	}
	for _, o := range opts {
		o(s)
	}
	s.grid = newGrid(cols, rows, s.blankCell())
	return s
}

func newGrid(cols, rows int, blank Cell) [][]Cell {
	g := make([][]Cell, rows)
	for i := range g {
		g[i] = make([]Cell, cols)
		for j := range g[i] {
			g[i][j] = blank
		}
	}
	return g
}

func (s *Screen) blankCell() Cell {
	return Cell{Rune: ' ', Pen: Pen{FG: s.defaultFG, BG: s.defaultBG}}
}

// Rows, Cols return the screen's geometry.
func (s *Screen) Rows() int { return s.rows }
func (s *Screen) Cols() int { return s.cols }

// Cursor returns the cursor's current position/visibility/style.
func (s *Screen) Cursor() Cursor { return s.cursor }

// activeGrid returns the grid currently being rendered to (alt grid if the
// alt screen is active, else the primary grid).
func (s *Screen) activeGrid() [][]Cell {
	if s.usingAlt {
		return s.altGrid
	}
	return s.grid
}

// Cell returns the cell at (row, col) of the active grid. Out-of-range
// coordinates return a blank cell in the screen's current default colors
// (BlankCell unless OSC 10/11 has changed them).
func (s *Screen) Cell(row, col int) Cell {
	g := s.activeGrid()
	if row < 0 || row >= len(g) || col < 0 || col >= s.cols {
		return s.blankCell()
	}
	return g[row][col]
}

// InAltScreen reports whether the alternate screen buffer is active.
func (s *Screen) InAltScreen() bool { return s.usingAlt }

// Title returns the most recent OSC 0/1/2 window/icon title.
func (s *Screen) Title() string { return s.title }

// PromptActive, InputActive, CommandActive mirror the OSC 133 shell
// integration markers (SPEC_FULL "Supplemented features").
func (s *Screen) PromptActive() bool  { return s.promptActive }
func (s *Screen) InputActive() bool   { return s.inputActive }
func (s *Screen) CommandActive() bool { return s.commandActive }

// AutowrapEnabled, OriginMode, InsertMode, AppCursorKeys, BracketedPaste
// expose the screen's current mode flags.
func (s *Screen) AutowrapEnabled() bool  { return s.autowrap }
func (s *Screen) OriginMode() bool       { return s.originMode }
func (s *Screen) InsertMode() bool       { return s.insertMode }
func (s *Screen) AppCursorKeys() bool    { return s.appCursorKeys }
func (s *Screen) BracketedPaste() bool   { return s.bracketedPaste }

// MouseTracking reports the active mouse-tracking mode (0, 1000, 1002, or
// 1003) and whether SGR (1006) encoding is requested.
func (s *Screen) MouseTracking() (mode int, sgr bool) { return s.mouseMode, s.mouseSGR }

// ScrollRegion returns the current scroll region, inclusive.
func (s *Screen) ScrollRegion() (top, bottom int) { return s.scrollTop, s.scrollBottom }

// MarginRegion returns the current left/right margin, inclusive.
func (s *Screen) MarginRegion() (left, right int) { return s.scrollLeft, s.scrollRight }

// MarkDirty records row as mutated since the last TakeDirty call.
func (s *Screen) MarkDirty(row int) {
	if !s.dirtyTrackingEnabled {
		return
	}
	if row < 0 || row >= s.rows {
		return
	}
	s.dirty[row] = true
}

// MarkAllDirty marks every row dirty (used on resize, alt-screen toggle, etc).
func (s *Screen) MarkAllDirty() { s.allDirty = true }

// TakeDirty returns and clears the dirty-row set. When dirty tracking is
// disabled, it always returns the full row range.
func (s *Screen) TakeDirty() []int {
	if !s.dirtyTrackingEnabled || s.allDirty {
		s.allDirty = false
		s.dirty = make(map[int]bool)
		rows := make([]int, s.rows)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	rows := make([]int, 0, len(s.dirty))
	for r := range s.dirty {
		rows = append(rows, r)
	}
	s.dirty = make(map[int]bool)
	return rows
}

// Resize changes screen geometry: rows that shrink drop from the bottom
// into scrollback; columns that shrink hard-truncate with no reflow.
func (s *Screen) Resize(cols, rows int) {
	if cols == s.cols && rows == s.rows {
		return
	}
	s.resizeGrid(&s.grid, cols, rows, !s.usingAlt)
	if s.altGrid != nil {
		s.resizeGrid(&s.altGrid, cols, rows, false)
	}
	s.cols, s.rows = cols, rows
	if s.scrollBottom >= rows {
		s.scrollBottom = rows - 1
	}
	if s.scrollTop > s.scrollBottom {
		s.scrollTop = 0
	}
	if s.scrollRight >= cols {
		s.scrollRight = cols - 1
	}
	if s.scrollLeft > s.scrollRight {
		s.scrollLeft = 0
	}
	if s.cursor.Row >= rows {
		s.cursor.Row = rows - 1
	}
	if s.cursor.Col > cols {
		s.cursor.Col = cols
	}
	s.pendingWrap = false
	s.MarkAllDirty()
}

func (s *Screen) resizeGrid(gridPtr *[][]Cell, cols, rows int, feedsScrollback bool) {
	old := *gridPtr
	blank := s.blankCell()
	if rows < len(old) {
		overflow := old[:len(old)-rows]
		if feedsScrollback {
			for _, row := range overflow {
				s.pushScrollback(row)
			}
		}
		old = old[len(old)-rows:]
	}
	newGrid := make([][]Cell, rows)
	for i := 0; i < rows; i++ {
		row := make([]Cell, cols)
		for j := range row {
			row[j] = blank
		}
		if i < len(old) {
			n := cols
			if len(old[i]) < n {
				n = len(old[i])
			}
			copy(row[:n], old[i][:n])
		}
		newGrid[i] = row
	}
	if rows > len(old) {
		// Growing adds the new blank rows at the top: the copied rows move
		// down to the bottom of newGrid. The cursor is not moved with them.
		shift := rows - len(old)
		for i := rows - 1; i >= shift; i-- {
			newGrid[i] = newGrid[i-shift]
		}
		for i := 0; i < shift; i++ {
			row := make([]Cell, cols)
			for j := range row {
				row[j] = blank
			}
			newGrid[i] = row
		}
	}
	*gridPtr = newGrid
}

func (s *Screen) pushScrollback(row []Cell) {
	if s.usingAlt || s.scrollbackCap <= 0 {
		return
	}
	cp := make([]Cell, len(row))
	copy(cp, row)
	s.scrollback = append(s.scrollback, cp)
	if len(s.scrollback) > s.scrollbackCap {
		s.scrollback = s.scrollback[len(s.scrollback)-s.scrollbackCap:]
	}
}

// Scrollback returns a copy of the scrollback ring, oldest first.
func (s *Screen) Scrollback() [][]Cell {
	out := make([][]Cell, len(s.scrollback))
	copy(out, s.scrollback)
	return out
}

// Clear resets the active grid to the blank cell. A cleared screen hashes
// identically to a freshly constructed one of the same geometry.
func (s *Screen) Clear() {
	blank := s.blankCell()
	g := s.activeGrid()
	for i := range g {
		for j := range g[i] {
			g[i][j] = blank
		}
	}
	s.cursor = Cursor{Visible: s.cursor.Visible}
	s.pen = DefaultPen
	s.pendingWrap = false
	s.MarkAllDirty()
}

// Reset restores the screen to its power-on state on this geometry.
func (s *Screen) Reset() {
	s.usingAlt = false
	s.altGrid = nil
	s.originMode = false
	s.autowrap = true
	s.insertMode = false
	s.appCursorKeys = false
	s.bracketedPaste = false
	s.mouseMode = 0
	s.mouseSGR = false
	s.leftRightMarginMode = false
	s.scrollTop, s.scrollBottom = 0, s.rows-1
	s.scrollLeft, s.scrollRight = 0, s.cols-1
	s.savedMain = savedCursorState{}
	s.savedAlt = savedCursorState{}
	s.title = ""
	s.Clear()
}

func (s *Screen) String() string {
	return fmt.Sprintf("Screen(%dx%d cursor=%d,%d)", s.cols, s.rows, s.cursor.Row, s.cursor.Col)
}
