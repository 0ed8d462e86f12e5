// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/codec.go
// Summary: Binary framing for trace files, generalized from the
// terminal-history write-ahead log's own entry format ("magic header,
// fixed-width entry framing, CRC32 trailer") from "logical terminal
// lines" to "schedule events and checkpoints." Each section of a trace
// (metadata, one entry per step/checkpoint/event) is one frame; frame
// payloads are JSON, since step/invariant/event values are heterogeneous
// tagged variants without a natural fixed-width layout.

package trace

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/syedazeez337/bte/internal/scenario"
)

// Magic identifies a BTE trace file; FrameFormat is the framing format's own
// version, independent of FormatVersion (full vs sparse), which lives
// inside the metadata frame.
const (
	Magic       = "BTETRC01"
	FrameFormat = uint32(1)
	headerSize  = len(Magic) + 4 // magic + frame format
)

// Frame type tags.
const (
	frameMeta       uint8 = 0x01
	frameStep       uint8 = 0x02
	frameCheckpoint uint8 = 0x03
	frameEvent      uint8 = 0x04
)

const frameHeaderSize = 1 + 8 + 8 + 4 // type + index + tick + dataLen
const frameTrailerSize = 4            // crc32

type metaFrame struct {
	Version  FormatVersion     `json:"version"`
	ID       string            `json:"id"`
	Seed     int64             `json:"seed"`
	Scenario scenario.Scenario `json:"scenario"`
	Outcome  Outcome           `json:"outcome"`
}

func writeHeader(w io.Writer) error {
	buf := make([]byte, headerSize)
	copy(buf, Magic)
	binary.LittleEndian.PutUint32(buf[len(Magic):], FrameFormat)
	_, err := w.Write(buf)
	return err
}

func readHeader(r io.Reader) error {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("trace: read header: %w", err)
	}
	if string(buf[:len(Magic)]) != Magic {
		return fmt.Errorf("trace: bad magic %q", buf[:len(Magic)])
	}
	if v := binary.LittleEndian.Uint32(buf[len(Magic):]); v != FrameFormat {
		return fmt.Errorf("trace: unsupported frame format %d", v)
	}
	return nil
}

func writeFrame(w io.Writer, typ uint8, index uint64, tick uint64, payload []byte) error {
	buf := make([]byte, frameHeaderSize+len(payload)+frameTrailerSize)
	buf[0] = typ
	binary.LittleEndian.PutUint64(buf[1:9], index)
	binary.LittleEndian.PutUint64(buf[9:17], tick)
	binary.LittleEndian.PutUint32(buf[17:21], uint32(len(payload)))
	copy(buf[frameHeaderSize:], payload)
	crc := crc32.ChecksumIEEE(buf[:frameHeaderSize+len(payload)])
	binary.LittleEndian.PutUint32(buf[frameHeaderSize+len(payload):], crc)
	_, err := w.Write(buf)
	return err
}

type rawFrame struct {
	Type    uint8
	Index   uint64
	Tick    uint64
	Payload []byte
}

func readFrame(r *bufio.Reader) (rawFrame, error) {
	head := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return rawFrame{}, err
	}
	typ := head[0]
	index := binary.LittleEndian.Uint64(head[1:9])
	tick := binary.LittleEndian.Uint64(head[9:17])
	dataLen := binary.LittleEndian.Uint32(head[17:21])

	payload := make([]byte, dataLen)
	if dataLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return rawFrame{}, fmt.Errorf("trace: read frame payload: %w", err)
		}
	}
	crcBuf := make([]byte, frameTrailerSize)
	if _, err := io.ReadFull(r, crcBuf); err != nil {
		return rawFrame{}, fmt.Errorf("trace: read frame crc: %w", err)
	}
	storedCRC := binary.LittleEndian.Uint32(crcBuf)

	full := make([]byte, frameHeaderSize+len(payload))
	copy(full, head)
	copy(full[frameHeaderSize:], payload)
	if got := crc32.ChecksumIEEE(full); got != storedCRC {
		return rawFrame{}, fmt.Errorf("trace: frame %d: crc mismatch (stored=%x computed=%x)", index, storedCRC, got)
	}
	return rawFrame{Type: typ, Index: index, Tick: tick, Payload: payload}, nil
}

// EncodeFull serializes a full trace.
func EncodeFull(w io.Writer, t *FullTrace) error {
	if err := writeHeader(w); err != nil {
		return err
	}
	meta, err := json.Marshal(metaFrame{Version: t.Version, ID: t.ID, Seed: t.Seed, Scenario: t.Scenario, Outcome: t.Outcome})
	if err != nil {
		return fmt.Errorf("trace: marshal meta: %w", err)
	}
	if err := writeFrame(w, frameMeta, 0, 0, meta); err != nil {
		return err
	}
	for i, step := range t.Steps {
		payload, err := json.Marshal(step)
		if err != nil {
			return fmt.Errorf("trace: marshal step %d: %w", i, err)
		}
		if err := writeFrame(w, frameStep, uint64(i), step.StartTick, payload); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFull deserializes a full trace previously written by EncodeFull.
func DecodeFull(r io.Reader) (*FullTrace, error) {
	if err := readHeader(r); err != nil {
		return nil, err
	}
	br := bufio.NewReader(r)
	t := &FullTrace{}
	haveMeta := false
	for {
		f, err := readFrame(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch f.Type {
		case frameMeta:
			var m metaFrame
			if err := json.Unmarshal(f.Payload, &m); err != nil {
				return nil, fmt.Errorf("trace: unmarshal meta: %w", err)
			}
			t.Version, t.ID, t.Seed, t.Scenario, t.Outcome = m.Version, m.ID, m.Seed, m.Scenario, m.Outcome
			haveMeta = true
		case frameStep:
			var s StepRecord
			if err := json.Unmarshal(f.Payload, &s); err != nil {
				return nil, fmt.Errorf("trace: unmarshal step %d: %w", f.Index, err)
			}
			t.Steps = append(t.Steps, s)
		default:
			return nil, fmt.Errorf("trace: unexpected frame type %d in full trace", f.Type)
		}
	}
	if !haveMeta {
		return nil, fmt.Errorf("trace: file has no metadata frame")
	}
	return t, nil
}

// EncodeSparse serializes a sparse trace.
func EncodeSparse(w io.Writer, t *SparseTrace) error {
	if err := writeHeader(w); err != nil {
		return err
	}
	meta, err := json.Marshal(metaFrame{Version: t.Version, ID: t.ID, Seed: t.Seed, Scenario: t.Scenario, Outcome: t.Outcome})
	if err != nil {
		return fmt.Errorf("trace: marshal meta: %w", err)
	}
	if err := writeFrame(w, frameMeta, 0, 0, meta); err != nil {
		return err
	}
	for i, cp := range t.Checkpoints {
		payload, err := json.Marshal(cp)
		if err != nil {
			return fmt.Errorf("trace: marshal checkpoint %d: %w", i, err)
		}
		if err := writeFrame(w, frameCheckpoint, uint64(i), cp.Tick, payload); err != nil {
			return err
		}
	}
	for i, ev := range t.Events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("trace: marshal event %d: %w", i, err)
		}
		if err := writeFrame(w, frameEvent, uint64(i), ev.Tick, payload); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSparse deserializes a sparse trace previously written by
// EncodeSparse.
func DecodeSparse(r io.Reader) (*SparseTrace, error) {
	if err := readHeader(r); err != nil {
		return nil, err
	}
	br := bufio.NewReader(r)
	t := &SparseTrace{}
	haveMeta := false
	for {
		f, err := readFrame(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch f.Type {
		case frameMeta:
			var m metaFrame
			if err := json.Unmarshal(f.Payload, &m); err != nil {
				return nil, fmt.Errorf("trace: unmarshal meta: %w", err)
			}
			t.Version, t.ID, t.Seed, t.Scenario, t.Outcome = m.Version, m.ID, m.Seed, m.Scenario, m.Outcome
			haveMeta = true
		case frameCheckpoint:
			var cp Checkpoint
			if err := json.Unmarshal(f.Payload, &cp); err != nil {
				return nil, fmt.Errorf("trace: unmarshal checkpoint %d: %w", f.Index, err)
			}
			t.Checkpoints = append(t.Checkpoints, cp)
		case frameEvent:
			var ev ScheduleEvent
			if err := json.Unmarshal(f.Payload, &ev); err != nil {
				return nil, fmt.Errorf("trace: unmarshal event %d: %w", f.Index, err)
			}
			t.Events = append(t.Events, ev)
		default:
			return nil, fmt.Errorf("trace: unexpected frame type %d in sparse trace", f.Type)
		}
	}
	if !haveMeta {
		return nil, fmt.Errorf("trace: file has no metadata frame")
	}
	return t, nil
}

// PeekVersion reads just enough of r to report whether it holds a full or
// sparse trace, without consuming r (r must support Seek via
// *bytes.Reader, the only caller this is built for).
func PeekVersion(r *bytes.Reader) (FormatVersion, error) {
	start, _ := r.Seek(0, io.SeekCurrent)
	defer r.Seek(start, io.SeekStart)

	if err := readHeader(r); err != nil {
		return 0, err
	}
	br := bufio.NewReader(r)
	f, err := readFrame(br)
	if err != nil {
		return 0, err
	}
	if f.Type != frameMeta {
		return 0, fmt.Errorf("trace: first frame is not metadata")
	}
	var m metaFrame
	if err := json.Unmarshal(f.Payload, &m); err != nil {
		return 0, err
	}
	return m.Version, nil
}
