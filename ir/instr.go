// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// Instr represents a single instruction. The operation-specific payload
// lives in Kind; Result is the SSA value the instruction defines, nil
// for instructions that only have side effects.
type Instr struct {
	Kind   InstrKind
	Result *Value

	// Index is the instruction's position in a function-wide numbering.
	// Valid only while MetadataInstrIndex holds for the function.
	Index int

	block *Block
}

// InstrKind represents the different kinds of instructions.
// Kinds are pointer types so passes can rewrite operand slots in place.
type InstrKind interface {
	instrKind()
}

// Block returns the block the instruction currently belongs to, or nil
// after removal.
func (in *Instr) Block() *Block { return in.block }

// Op returns the instruction's mnemonic.
func (in *Instr) Op() string {
	switch k := in.Kind.(type) {
	case *Const:
		return "const"
	case *Undef:
		return "undef"
	case *FConvert:
		return "f2f"
	case *UConvert:
		return "u2u"
	case *Select:
		return "select"
	case *LoadInput:
		return "load_input"
	case *Binary:
		return k.Op.String()
	case *StoreOutput:
		return "store_output"
	case *Discard:
		return "discard"
	case *DiscardIf:
		return "discard_if"
	case *StoreZS:
		return "store_zs"
	case *KillSamples:
		return "kill_samples"
	case *Jump:
		return "jump"
	case *Branch:
		return "branch"
	case *Return:
		return "return"
	}
	return "unknown"
}

// IsTerminator reports whether the instruction ends a basic block.
func (in *Instr) IsTerminator() bool {
	switch in.Kind.(type) {
	case *Jump, *Branch, *Return:
		return true
	}
	return false
}

// Const materializes an integer or raw-bits literal of the result width.
// Floating literals are stored by their bit pattern.
type Const struct {
	Bits uint64
}

func (*Const) instrKind() {}

// Undef produces an explicitly undefined value of the result width.
// Used as a placeholder operand to be overwritten by a later rewrite.
type Undef struct{}

func (*Undef) instrKind() {}

// FConvert converts a floating value to the result width.
type FConvert struct {
	Src *Value
}

func (*FConvert) instrKind() {}

// UConvert converts an unsigned integer value to the result width,
// zero-extending or truncating as needed.
type UConvert struct {
	Src *Value
}

func (*UConvert) instrKind() {}

// Select picks True or False per lane based on a 1-bit condition.
type Select struct {
	Cond  *Value
	True  *Value
	False *Value
}

func (*Select) instrKind() {}

// LoadInput reads a fragment input at the given location slot.
type LoadInput struct {
	Location uint8
}

func (*LoadInput) instrKind() {}

// BinaryOp enumerates the ALU operations carried by Binary.
type BinaryOp uint8

const (
	// OpAdd is addition.
	OpAdd BinaryOp = iota
	// OpMul is multiplication.
	OpMul
	// OpAnd is bitwise and.
	OpAnd
	// OpOr is bitwise or.
	OpOr
	// OpLess is an unsigned/ordered less-than comparison; its result
	// is 1-bit.
	OpLess
)

// String returns the operation mnemonic.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpLess:
		return "lt"
	}
	return "binop"
}

// Binary is a two-operand ALU instruction.
type Binary struct {
	Op  BinaryOp
	LHS *Value
	RHS *Value
}

func (*Binary) instrKind() {}

// StoreOutput writes a value to a fragment output location. This is the
// generic form produced by earlier pipeline stages; target lowering
// folds depth/stencil stores into StoreZS.
type StoreOutput struct {
	Target OutputTarget
	Src    *Value
}

func (*StoreOutput) instrKind() {}

// Discard kills the current fragment unconditionally. Lowered to
// KillSamples by the discard pass.
type Discard struct{}

func (*Discard) instrKind() {}

// DiscardIf kills the current fragment when the 1-bit condition holds.
type DiscardIf struct {
	Cond *Value
}

func (*DiscardIf) instrKind() {}

// ZSChannels records which channels a StoreZS instruction supplies.
type ZSChannels uint8

const (
	// ZSChannelDepth marks the depth operand as supplied.
	ZSChannelDepth ZSChannels = 1 << iota
	// ZSChannelStencil marks the stencil operand as supplied.
	ZSChannelStencil
)

// StoreZS is the fused depth/stencil/sample-mask store. The hardware
// exposes these writes as one combined instruction, so the lowering
// pass accumulates per-block depth and stencil stores into a single
// StoreZS.
//
// Channels may have each bit set at most once over the instruction's
// lifetime: each of depth and stencil is written at most once per block
// by construction of earlier pipeline stages.
type StoreZS struct {
	SampleMask *Value
	Depth      *Value
	Stencil    *Value
	Channels   ZSChannels
}

func (*StoreZS) instrKind() {}

// KillSamples discards the samples named by a 16-bit per-sample kill
// mask. This is the fused form of Discard/DiscardIf.
type KillSamples struct {
	Mask *Value
}

func (*KillSamples) instrKind() {}

// Jump transfers control to another block unconditionally.
type Jump struct {
	To *Block
}

func (*Jump) instrKind() {}

// Branch transfers control to Then or Else based on a 1-bit condition.
type Branch struct {
	Cond *Value
	Then *Block
	Else *Block
}

func (*Branch) instrKind() {}

// Return exits the function. Src may be nil for a void return.
type Return struct {
	Src *Value
}

func (*Return) instrKind() {}
