// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "fmt"

// Program represents a shader program in backend IR form.
//
// A program is not owned by the passes that run over it: callers retain
// ownership and pass it by reference. Passes take exclusive mutable
// access for their duration; the IR is not safe for concurrent readers
// while a pass runs.
type Program struct {
	// Name identifies the program in diagnostics and dumps.
	Name string

	// Functions holds all function definitions in pipeline order.
	Functions []*Function

	// Info holds summary facts about the program. Passes consult it
	// for fast-exit checks; UpdateInfo recomputes it.
	Info Info
}

// NewProgram creates an empty program.
func NewProgram(name string) *Program {
	return &Program{Name: name, Info: newInfo()}
}

// NewFunction appends a new empty function to the program.
func (p *Program) NewFunction(name string) *Function {
	fn := &Function{Name: name, program: p}
	p.Functions = append(p.Functions, fn)
	return fn
}

// Function represents a single function: an ordered sequence of basic
// blocks plus cached analysis metadata.
type Function struct {
	// Name is the function name.
	Name string

	// Blocks holds the function's basic blocks. Blocks[0] is the entry.
	Blocks []*Block

	program   *Program
	nextValue uint32
	valid     Metadata
}

// Program returns the program this function belongs to.
func (f *Function) Program() *Program { return f.program }

// Entry returns the entry block, or nil for a function with no blocks.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// NewBlock appends a new empty basic block to the function.
func (f *Function) NewBlock() *Block {
	b := &Block{fn: f, Index: len(f.Blocks)}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Function) newValue(width Width) *Value {
	v := &Value{ID: f.nextValue, Width: width}
	f.nextValue++
	return v
}

// Block represents a basic block: a maximal straight-line instruction
// sequence with a single entry and a single exit. The last instruction
// of a complete block is a terminator.
type Block struct {
	// Index is the block's position in a reverse-postorder numbering.
	// Valid only while MetadataBlockIndex holds for the function.
	Index int

	// IDom is the block's immediate dominator (nil for the entry).
	// Valid only while MetadataDominance holds for the function.
	IDom *Block

	// Preds and Succs are the CFG edges, maintained by the builder's
	// terminator constructors.
	Preds []*Block
	Succs []*Block

	// Instrs holds the block's instructions in execution order.
	Instrs []*Instr

	fn *Function
}

// Function returns the function this block belongs to.
func (b *Block) Function() *Function { return b.fn }

// Terminator returns the block's terminator instruction, or nil if the
// block is still open.
func (b *Block) Terminator() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	last := b.Instrs[len(b.Instrs)-1]
	if !last.IsTerminator() {
		return nil
	}
	return last
}

// Remove removes an instruction from the block by identity. Removing an
// instruction that is not in the block is a contract violation.
//
// Removal is safe under the reverse index walk used by lowering passes:
// instructions before the removed one keep their indices.
func (b *Block) Remove(in *Instr) {
	for i, cur := range b.Instrs {
		if cur == in {
			b.Instrs = append(b.Instrs[:i], b.Instrs[i+1:]...)
			in.block = nil
			return
		}
	}
	panic(fmt.Sprintf("ir: removing instruction not in block (op %s)", in.Op()))
}

func (b *Block) indexOf(in *Instr) int {
	for i, cur := range b.Instrs {
		if cur == in {
			return i
		}
	}
	panic(fmt.Sprintf("ir: instruction not in its block (op %s)", in.Op()))
}

func (b *Block) insertAt(i int, in *Instr) {
	b.Instrs = append(b.Instrs, nil)
	copy(b.Instrs[i+1:], b.Instrs[i:])
	b.Instrs[i] = in
	in.block = b
}

// Width is the bit width of an SSA value.
type Width uint8

// Supported value widths. 1-bit values are booleans.
const (
	Width1  Width = 1
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) valid() bool {
	switch w {
	case Width1, Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

// Value is an SSA reference to a previously computed result. Values are
// shared (referenced by any number of instructions) and immutable once
// defined.
type Value struct {
	// ID is the value's number, unique within its function.
	ID uint32

	// Width is the value's bit width.
	Width Width

	// Def is the instruction that produces the value, nil for values
	// injected from outside the function (test fixtures).
	Def *Instr
}

func (v *Value) String() string {
	return fmt.Sprintf("%%%d", v.ID)
}

// OutputTarget tags a fragment output location. The numbering follows
// the hardware's fragment result slots: depth and stencil first, then
// the color render targets.
type OutputTarget uint8

const (
	// OutputDepth is the fragment depth output.
	OutputDepth OutputTarget = iota

	// OutputStencil is the fragment stencil reference output.
	OutputStencil

	// OutputColor0 through OutputColor7 are the color render targets.
	OutputColor0
	OutputColor1
	OutputColor2
	OutputColor3
	OutputColor4
	OutputColor5
	OutputColor6
	OutputColor7
)

// String returns the target name used by the printer.
func (t OutputTarget) String() string {
	switch t {
	case OutputDepth:
		return "depth"
	case OutputStencil:
		return "stencil"
	}
	if t >= OutputColor0 && t <= OutputColor7 {
		return fmt.Sprintf("color%d", t-OutputColor0)
	}
	return fmt.Sprintf("output(%d)", uint8(t))
}
