// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "fmt"

// Builder constructs instructions at an insertion cursor.
//
// The cursor names a position inside one block: before or after an
// existing instruction, or at a block boundary. Every emit method
// inserts at the cursor and advances it past the new instruction, so a
// sequence of emits produces instructions in program order.
type Builder struct {
	fn    *Function
	block *Block
	index int
}

// NewBuilder creates a builder for a function with an unset cursor.
// Position the cursor before emitting.
func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn, block: nil}
}

// SetBefore positions the cursor immediately before an instruction.
func (b *Builder) SetBefore(in *Instr) {
	if in.block == nil {
		panic("ir: cursor target is not in a block")
	}
	b.block = in.block
	b.index = in.block.indexOf(in)
}

// SetAfter positions the cursor immediately after an instruction.
func (b *Builder) SetAfter(in *Instr) {
	b.SetBefore(in)
	b.index++
}

// SetAtStart positions the cursor at the beginning of a block.
func (b *Builder) SetAtStart(blk *Block) {
	b.block = blk
	b.index = 0
}

// SetAtEnd positions the cursor at the end of a block, after its last
// instruction.
func (b *Builder) SetAtEnd(blk *Block) {
	b.block = blk
	b.index = len(blk.Instrs)
}

func (b *Builder) emit(kind InstrKind, result *Value) *Instr {
	if b.block == nil {
		panic("ir: emitting with an unset cursor")
	}
	in := &Instr{Kind: kind, Result: result}
	if result != nil {
		result.Def = in
	}
	b.block.insertAt(b.index, in)
	b.index++
	return in
}

// Const emits a literal of the given width and returns its value.
func (b *Builder) Const(width Width, bits uint64) *Value {
	if !width.valid() {
		panic(fmt.Sprintf("ir: invalid constant width %d", width))
	}
	v := b.fn.newValue(width)
	b.emit(&Const{Bits: bits}, v)
	return v
}

// Undef emits an explicitly undefined value of the given width.
func (b *Builder) Undef(width Width) *Value {
	if !width.valid() {
		panic(fmt.Sprintf("ir: invalid undef width %d", width))
	}
	v := b.fn.newValue(width)
	b.emit(&Undef{}, v)
	return v
}

// FConvertTo converts a floating value to the given width. Returns the
// source unchanged when it already has that width.
func (b *Builder) FConvertTo(width Width, src *Value) *Value {
	if src.Width == width {
		return src
	}
	v := b.fn.newValue(width)
	b.emit(&FConvert{Src: src}, v)
	return v
}

// UConvertTo converts an unsigned integer value to the given width.
// Returns the source unchanged when it already has that width.
func (b *Builder) UConvertTo(width Width, src *Value) *Value {
	if src.Width == width {
		return src
	}
	v := b.fn.newValue(width)
	b.emit(&UConvert{Src: src}, v)
	return v
}

// Select emits a per-lane select between two values of equal width.
func (b *Builder) Select(cond, yes, no *Value) *Value {
	if cond.Width != Width1 {
		panic(fmt.Sprintf("ir: select condition must be 1-bit, got %d", cond.Width))
	}
	if yes.Width != no.Width {
		panic(fmt.Sprintf("ir: select arm widths differ (%d vs %d)", yes.Width, no.Width))
	}
	v := b.fn.newValue(yes.Width)
	b.emit(&Select{Cond: cond, True: yes, False: no}, v)
	return v
}

// LoadInput emits a fragment input load of the given width.
func (b *Builder) LoadInput(width Width, location uint8) *Value {
	v := b.fn.newValue(width)
	b.emit(&LoadInput{Location: location}, v)
	return v
}

// Binary emits a two-operand ALU instruction. Comparisons produce a
// 1-bit result; all other operations keep the operand width.
func (b *Builder) Binary(op BinaryOp, lhs, rhs *Value) *Value {
	if lhs.Width != rhs.Width {
		panic(fmt.Sprintf("ir: binary operand widths differ (%d vs %d)", lhs.Width, rhs.Width))
	}
	width := lhs.Width
	if op == OpLess {
		width = Width1
	}
	v := b.fn.newValue(width)
	b.emit(&Binary{Op: op, LHS: lhs, RHS: rhs}, v)
	return v
}

// StoreOutput emits a generic fragment output write.
func (b *Builder) StoreOutput(target OutputTarget, src *Value) *Instr {
	return b.emit(&StoreOutput{Target: target, Src: src}, nil)
}

// Discard emits an unconditional fragment discard.
func (b *Builder) Discard() *Instr {
	return b.emit(&Discard{}, nil)
}

// DiscardIf emits a conditional fragment discard.
func (b *Builder) DiscardIf(cond *Value) *Instr {
	if cond.Width != Width1 {
		panic(fmt.Sprintf("ir: discard condition must be 1-bit, got %d", cond.Width))
	}
	return b.emit(&DiscardIf{Cond: cond}, nil)
}

// StoreZS emits a fused depth/stencil store with no channels supplied.
// The caller fills operand slots and channel bits afterwards.
func (b *Builder) StoreZS(sampleMask, depth, stencil *Value) *Instr {
	return b.emit(&StoreZS{SampleMask: sampleMask, Depth: depth, Stencil: stencil}, nil)
}

// KillSamples emits a fused discard with a 16-bit kill mask.
func (b *Builder) KillSamples(mask *Value) *Instr {
	if mask.Width != Width16 {
		panic(fmt.Sprintf("ir: kill mask must be 16-bit, got %d", mask.Width))
	}
	return b.emit(&KillSamples{Mask: mask}, nil)
}

// Jump emits an unconditional terminator and records the CFG edge.
func (b *Builder) Jump(to *Block) *Instr {
	in := b.emit(&Jump{To: to}, nil)
	addEdge(b.block, to)
	return in
}

// Branch emits a conditional terminator and records both CFG edges.
func (b *Builder) Branch(cond *Value, then, els *Block) *Instr {
	if cond.Width != Width1 {
		panic(fmt.Sprintf("ir: branch condition must be 1-bit, got %d", cond.Width))
	}
	in := b.emit(&Branch{Cond: cond, Then: then, Else: els}, nil)
	addEdge(b.block, then)
	addEdge(b.block, els)
	return in
}

// Return emits a return terminator. src may be nil.
func (b *Builder) Return(src *Value) *Instr {
	return b.emit(&Return{Src: src}, nil)
}

func addEdge(from, to *Block) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}
