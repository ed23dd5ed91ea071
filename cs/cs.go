// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package cs provides register-level command-stream encoding helpers.
//
// A Stream is a growable sequence of 32-bit words. Emission follows a
// reserve-then-emit contract: callers declare how many words a packet
// needs before emitting it, and emitting past the reservation is a
// contract violation. Register writes are packed as [header, register
// index, payload...] packets with per-register-file range checks.
package cs

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Fragment register file. Registers are word-aligned byte offsets.
const (
	FragRegOffset uint32 = 0x4000
	FragRegEnd    uint32 = 0x5000
)

// Fragment-output state registers.
const (
	// RegZSControl holds the depth/stencil write-enable channels.
	RegZSControl = FragRegOffset + 0x00

	// RegKillControl holds the sample-kill configuration.
	RegKillControl = FragRegOffset + 0x04

	// RegOutputMask holds the color render-target write mask.
	RegOutputMask = FragRegOffset + 0x08
)

// Packet opcodes.
const (
	opSetFragReg uint32 = 0x76
)

// Stream is a growable little-endian command stream.
type Stream struct {
	words    []uint32
	reserved int
	written  *bitset.BitSet
}

// New creates an empty command stream.
func New() *Stream {
	return &Stream{
		words:   make([]uint32, 0, 16),
		written: bitset.New(uint((FragRegEnd - FragRegOffset) >> 2)),
	}
}

// Reserve guarantees space for n more words. The stream grows as
// needed; the reservation bounds subsequent Emit calls.
func (s *Stream) Reserve(n int) {
	if len(s.words) > s.reserved {
		panic("cs: stream emitted past its reservation")
	}
	if s.reserved < len(s.words)+n {
		s.reserved = len(s.words) + n
	}
}

// Emit appends one word within the current reservation.
func (s *Stream) Emit(w uint32) {
	if len(s.words)+1 > s.reserved {
		panic("cs: emit without reserved space")
	}
	s.words = append(s.words, w)
}

// Len returns the number of words emitted so far.
func (s *Stream) Len() int { return len(s.words) }

// Words returns the emitted words. The slice aliases the stream.
func (s *Stream) Words() []uint32 { return s.words }

// Bytes returns the stream encoded little-endian.
func (s *Stream) Bytes() []byte {
	out := make([]byte, 4*len(s.words))
	for i, w := range s.words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

func packetHeader(op, count uint32) uint32 {
	return 0xC0000000 | op<<16 | count
}

// SetFragRegSeq begins a packet writing num consecutive fragment
// registers starting at reg. The payload words follow via Emit.
func (s *Stream) SetFragRegSeq(reg uint32, num int) {
	if reg < FragRegOffset || reg >= FragRegEnd {
		panic(fmt.Sprintf("cs: register %#x outside the fragment file", reg))
	}
	if num <= 0 {
		panic("cs: empty register sequence")
	}
	if len(s.words)+2+num > s.reserved {
		panic("cs: register packet exceeds reserved space")
	}
	for i := 0; i < num; i++ {
		idx := uint((reg-FragRegOffset)>>2) + uint(i)
		if s.written.Test(idx) {
			panic(fmt.Sprintf("cs: register %#x written twice", reg+uint32(4*i)))
		}
		s.written.Set(idx)
	}
	s.Emit(packetHeader(opSetFragReg, uint32(num)))
	s.Emit((reg - FragRegOffset) >> 2)
}

// SetFragReg writes a single fragment register.
func (s *Stream) SetFragReg(reg, value uint32) {
	s.SetFragRegSeq(reg, 1)
	s.Emit(value)
}

// Decode parses a stream back into a register/value map. Used by tests
// and diagnostic tooling; returns an error on a malformed stream.
func Decode(words []uint32) (map[uint32]uint32, error) {
	regs := make(map[uint32]uint32)
	for i := 0; i < len(words); {
		header := words[i]
		if header>>30 != 3 {
			return nil, fmt.Errorf("cs: word %d: bad packet header %#x", i, header)
		}
		op := (header >> 16) & 0x3FFF
		count := int(header & 0xFFFF)
		if op != opSetFragReg {
			return nil, fmt.Errorf("cs: word %d: unknown opcode %#x", i, op)
		}
		if i+2+count > len(words) {
			return nil, fmt.Errorf("cs: word %d: truncated packet", i)
		}
		reg := FragRegOffset + words[i+1]<<2
		for j := 0; j < count; j++ {
			regs[reg+uint32(4*j)] = words[i+2+j]
		}
		i += 2 + count
	}
	return regs, nil
}
