// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/screenshot/screenshot.go
// Summary: Baseline screen capture: geometry, cells with full rendition,
// and cursor, serialized to YAML. Save/Load are the narrow interface the
// scenario runtime's take_screenshot/assert_screenshot steps consume; the
// comparison contract (which axes, which regions) is pinned here, the
// on-disk layout is not part of any other module's contract.

package screenshot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syedazeez337/bte/internal/vt"
)

// Cell is one captured grid position.
type Cell struct {
	Rune  rune   `yaml:"rune"`
	FG    Color  `yaml:"fg"`
	BG    Color  `yaml:"bg"`
	Attrs uint16 `yaml:"attrs"`
}

// Color mirrors vt.Color in a form stable to serialize.
type Color struct {
	Mode  uint8 `yaml:"mode"`
	Index uint8 `yaml:"index,omitempty"`
	R     uint8 `yaml:"r,omitempty"`
	G     uint8 `yaml:"g,omitempty"`
	B     uint8 `yaml:"b,omitempty"`
}

// Screenshot is a captured Screen baseline.
type Screenshot struct {
	Cols      int      `yaml:"cols"`
	Rows      int      `yaml:"rows"`
	Cells     [][]Cell `yaml:"cells"`
	CursorRow int      `yaml:"cursor_row"`
	CursorCol int      `yaml:"cursor_col"`
}

// Capture builds a Screenshot from the current state of s.
func Capture(s *vt.Screen) *Screenshot {
	rows, cols := s.Rows(), s.Cols()
	cells := make([][]Cell, rows)
	for r := 0; r < rows; r++ {
		row := make([]Cell, cols)
		for c := 0; c < cols; c++ {
			cell := s.Cell(r, c)
			row[c] = Cell{
				Rune: cell.Rune,
				FG: Color{Mode: uint8(cell.Pen.FG.Mode), Index: cell.Pen.FG.Index, R: cell.Pen.FG.R, G: cell.Pen.FG.G, B: cell.Pen.FG.B},
				BG: Color{Mode: uint8(cell.Pen.BG.Mode), Index: cell.Pen.BG.Index, R: cell.Pen.BG.R, G: cell.Pen.BG.G, B: cell.Pen.BG.B},
				Attrs: uint16(cell.Pen.Attrs),
			}
		}
		cells[r] = row
	}
	cur := s.Cursor()
	return &Screenshot{Cols: cols, Rows: rows, Cells: cells, CursorRow: cur.Row, CursorCol: cur.Col}
}

// Save writes shot to path as YAML.
func Save(path string, shot *Screenshot) error {
	data, err := yaml.Marshal(shot)
	if err != nil {
		return fmt.Errorf("screenshot: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("screenshot: write %s: %w", path, err)
	}
	return nil
}

// Load reads a Screenshot baseline previously written by Save.
func Load(path string) (*Screenshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("screenshot: read %s: %w", path, err)
	}
	var shot Screenshot
	if err := yaml.Unmarshal(data, &shot); err != nil {
		return nil, fmt.Errorf("screenshot: unmarshal %s: %w", path, err)
	}
	return &shot, nil
}

// Region is a rectangular cell range, inclusive of Row0/Col0, exclusive of
// Row1/Col1, excluded from comparison.
type Region struct {
	Row0, Col0 int
	Row1, Col1 int
}

func (r Region) contains(row, col int) bool {
	return row >= r.Row0 && row < r.Row1 && col >= r.Col0 && col < r.Col1
}

// CompareOptions selects which axes Compare checks.
type CompareOptions struct {
	CompareColors bool
	CompareText   bool
	IgnoreRegions []Region
}

// Compare counts cell-by-cell differences between baseline and current
// outside any ignored region, restricted to the axes CompareOptions
// selects. A geometry mismatch adds a single difference, however many
// rows or columns differ; cells are then compared only over the overlap
// of the two geometries.
func Compare(baseline, current *Screenshot, opts CompareOptions) int {
	diffs := 0
	if baseline.Rows != current.Rows || baseline.Cols != current.Cols {
		diffs++
	}
	rows := min(baseline.Rows, current.Rows)
	cols := min(baseline.Cols, current.Cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ignored := false
			for _, region := range opts.IgnoreRegions {
				if region.contains(r, c) {
					ignored = true
					break
				}
			}
			if ignored {
				continue
			}
			a, b := baseline.Cells[r][c], current.Cells[r][c]
			if opts.CompareText && a.Rune != b.Rune {
				diffs++
				continue
			}
			if opts.CompareColors && (a.FG != b.FG || a.BG != b.BG || a.Attrs != b.Attrs) {
				diffs++
			}
		}
	}
	return diffs
}
