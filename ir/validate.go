// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "fmt"

// ValidationError represents a validation error.
type ValidationError struct {
	Message string
	// Optional context
	Function string
	Block    int
	Instr    int
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Function != "" {
		if e.Instr >= 0 {
			return fmt.Sprintf("in function %s, block %d, instruction %d: %s", e.Function, e.Block, e.Instr, e.Message)
		}
		if e.Block >= 0 {
			return fmt.Sprintf("in function %s, block %d: %s", e.Function, e.Block, e.Message)
		}
		return fmt.Sprintf("in function %s: %s", e.Function, e.Message)
	}
	return e.Message
}

// Validator validates IR programs.
type Validator struct {
	program *Program
	errors  []ValidationError
	context validationContext
}

// validationContext holds current validation context.
type validationContext struct {
	functionName string
	block        int
	instr        int
}

// Validate checks the IR program for correctness.
// Returns validation errors if any, or nil if the program is valid.
//
// Validation covers structural rules only: terminator placement, CFG
// edge consistency, and operand width contracts. It does not check the
// semantic invariants that passes enforce with fatal assertions.
func Validate(p *Program) ([]ValidationError, error) {
	if p == nil {
		return nil, fmt.Errorf("program is nil")
	}

	v := &Validator{
		program: p,
		errors:  make([]ValidationError, 0),
	}

	v.validateProgram()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

func (v *Validator) addError(format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Message:  fmt.Sprintf(format, args...),
		Function: v.context.functionName,
		Block:    v.context.block,
		Instr:    v.context.instr,
	})
}

func (v *Validator) validateProgram() {
	for _, fn := range v.program.Functions {
		v.context.functionName = fn.Name
		v.context.block = -1
		v.context.instr = -1
		v.validateFunction(fn)
	}
}

func (v *Validator) validateFunction(fn *Function) {
	if len(fn.Blocks) == 0 {
		v.addError("function has no blocks")
		return
	}
	for bi, blk := range fn.Blocks {
		v.context.block = bi
		v.context.instr = -1
		v.validateBlock(fn, blk)
	}
}

func (v *Validator) validateBlock(fn *Function, blk *Block) {
	if blk.Function() != fn {
		v.addError("block belongs to a different function")
		return
	}
	if len(blk.Instrs) == 0 {
		v.addError("block is empty (missing terminator)")
		return
	}
	for ii, in := range blk.Instrs {
		v.context.instr = ii
		if in.IsTerminator() && ii != len(blk.Instrs)-1 {
			v.addError("terminator %s in the middle of a block", in.Op())
		}
		v.validateInstr(fn, in)
	}
	v.context.instr = -1
	term := blk.Instrs[len(blk.Instrs)-1]
	if !term.IsTerminator() {
		v.addError("block does not end in a terminator (last op %s)", term.Op())
		return
	}
	v.validateEdges(blk, term)
}

//nolint:gocyclo,cyclop // Width checking requires handling all instruction kinds
func (v *Validator) validateInstr(fn *Function, in *Instr) {
	switch k := in.Kind.(type) {
	case *Const, *Undef, *LoadInput:
		if in.Result == nil {
			v.addError("%s has no result value", in.Op())
		}

	case *FConvert:
		v.checkOperand("source", k.Src)

	case *UConvert:
		v.checkOperand("source", k.Src)

	case *Select:
		v.checkCondition(k.Cond)
		v.checkOperand("true arm", k.True)
		v.checkOperand("false arm", k.False)
		if k.True != nil && k.False != nil && k.True.Width != k.False.Width {
			v.addError("select arm widths differ (%d vs %d)", k.True.Width, k.False.Width)
		}
		if in.Result != nil && k.True != nil && in.Result.Width != k.True.Width {
			v.addError("select result width %d does not match arms (%d)", in.Result.Width, k.True.Width)
		}

	case *Binary:
		v.checkOperand("lhs", k.LHS)
		v.checkOperand("rhs", k.RHS)
		if k.LHS != nil && k.RHS != nil && k.LHS.Width != k.RHS.Width {
			v.addError("%s operand widths differ (%d vs %d)", k.Op, k.LHS.Width, k.RHS.Width)
		}

	case *StoreOutput:
		v.checkOperand("stored value", k.Src)

	case *Discard:

	case *DiscardIf:
		v.checkCondition(k.Cond)

	case *StoreZS:
		v.checkWidth("sample mask", k.SampleMask, Width16)
		v.checkWidth("depth operand", k.Depth, Width32)
		v.checkWidth("stencil operand", k.Stencil, Width16)
		if k.Channels&^(ZSChannelDepth|ZSChannelStencil) != 0 {
			v.addError("store_zs channels field has unknown bits %#x", uint8(k.Channels))
		}

	case *KillSamples:
		v.checkWidth("kill mask", k.Mask, Width16)

	case *Jump:
		v.checkTarget(fn, k.To)

	case *Branch:
		v.checkCondition(k.Cond)
		v.checkTarget(fn, k.Then)
		v.checkTarget(fn, k.Else)

	case *Return:
	}

	if in.Result != nil && !in.Result.Width.valid() {
		v.addError("result has malformed width %d", in.Result.Width)
	}
}

func (v *Validator) checkOperand(name string, val *Value) {
	if val == nil {
		v.addError("%s operand is missing", name)
		return
	}
	if !val.Width.valid() {
		v.addError("%s operand has malformed width %d", name, val.Width)
	}
}

func (v *Validator) checkCondition(val *Value) {
	if val == nil {
		v.addError("condition operand is missing")
		return
	}
	if val.Width != Width1 {
		v.addError("condition must be 1-bit, got %d", val.Width)
	}
}

func (v *Validator) checkWidth(name string, val *Value, want Width) {
	if val == nil {
		v.addError("%s is missing", name)
		return
	}
	if val.Width != want {
		v.addError("%s must be %d-bit, got %d", name, want, val.Width)
	}
}

func (v *Validator) checkTarget(fn *Function, blk *Block) {
	if blk == nil {
		v.addError("terminator target is missing")
		return
	}
	for _, b := range fn.Blocks {
		if b == blk {
			return
		}
	}
	v.addError("terminator targets a block outside the function")
}

// validateEdges checks that the recorded CFG edges match what the
// terminator implies.
func (v *Validator) validateEdges(blk *Block, term *Instr) {
	var want []*Block
	switch k := term.Kind.(type) {
	case *Jump:
		want = []*Block{k.To}
	case *Branch:
		want = []*Block{k.Then, k.Else}
	case *Return:
	}

	if len(blk.Succs) != len(want) {
		v.addError("block has %d successors, terminator implies %d", len(blk.Succs), len(want))
		return
	}
	for i, succ := range blk.Succs {
		if succ != want[i] {
			v.addError("successor %d does not match terminator target", i)
			continue
		}
		if succ != nil && !hasPred(succ, blk) {
			v.addError("successor %d is missing the back edge in Preds", i)
		}
	}
}

func hasPred(blk, pred *Block) bool {
	for _, p := range blk.Preds {
		if p == pred {
			return true
		}
	}
	return false
}
