// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/hash.go
// Summary: Deterministic, non-cryptographic fingerprint of screen state,
// used to compare two runs of the same scenario for divergence.

package vt

import (
	"encoding/binary"
	"hash/fnv"
)

// StateHash returns a fingerprint of the active grid's contents, the
// cursor, the pending pen state, and the mode flags that affect
// rendering. Two Screens with identical visible state (including
// scrollback) hash identically regardless of the sequence of
// operations that produced them.
func (s *Screen) StateHash() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}
	writeByte := func(b byte) { h.Write([]byte{b}) }

	g := s.activeGrid()
	writeInt(s.rows)
	writeInt(s.cols)
	for _, row := range g {
		for _, cell := range row {
			writeInt(int(cell.Rune))
			writeInt(int(cell.Pen.FG.Mode))
			writeByte(cell.Pen.FG.Index)
			writeByte(cell.Pen.FG.R)
			writeByte(cell.Pen.FG.G)
			writeByte(cell.Pen.FG.B)
			writeInt(int(cell.Pen.BG.Mode))
			writeByte(cell.Pen.BG.Index)
			writeByte(cell.Pen.BG.R)
			writeByte(cell.Pen.BG.G)
			writeByte(cell.Pen.BG.B)
			writeInt(int(cell.Pen.Attrs))
		}
	}
	writeInt(s.cursor.Row)
	writeInt(s.cursor.Col)
	if s.cursor.Visible {
		writeByte(1)
	} else {
		writeByte(0)
	}
	writeInt(int(s.pen.FG.Mode))
	writeByte(s.pen.FG.Index)
	writeByte(s.pen.FG.R)
	writeByte(s.pen.FG.G)
	writeByte(s.pen.FG.B)
	writeInt(int(s.pen.BG.Mode))
	writeByte(s.pen.BG.Index)
	writeByte(s.pen.BG.R)
	writeByte(s.pen.BG.G)
	writeByte(s.pen.BG.B)
	writeInt(int(s.pen.Attrs))
	if s.usingAlt {
		writeByte(1)
	} else {
		writeByte(0)
	}
	for _, row := range s.scrollback {
		for _, cell := range row {
			writeInt(int(cell.Rune))
		}
	}
	return h.Sum64()
}
