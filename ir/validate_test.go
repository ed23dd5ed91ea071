// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validProgram() *Program {
	p := NewProgram("valid")
	fn := p.NewFunction("main")
	entry := fn.NewBlock()
	kill := fn.NewBlock()
	exit := fn.NewBlock()
	b := NewBuilder(fn)

	b.SetAtEnd(entry)
	cond := b.Binary(OpLess, b.LoadInput(Width32, 0), b.Const(Width32, 1))
	b.StoreOutput(OutputDepth, b.LoadInput(Width32, 1))
	b.Branch(cond, kill, exit)

	b.SetAtEnd(kill)
	b.DiscardIf(cond)
	b.Jump(exit)

	b.SetAtEnd(exit)
	b.StoreOutput(OutputColor0, b.LoadInput(Width32, 2))
	b.Return(nil)

	return p
}

func TestValidate_ValidProgram(t *testing.T) {
	errs, err := Validate(validProgram())
	require.NoError(t, err)
	require.Empty(t, errs)
}

func TestValidate_NilProgram(t *testing.T) {
	_, err := Validate(nil)
	require.Error(t, err)
}

func TestValidate_FunctionWithoutBlocks(t *testing.T) {
	p := NewProgram("empty")
	p.NewFunction("main")

	errs, err := Validate(p)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "no blocks")
}

func TestValidate_EmptyBlock(t *testing.T) {
	p := NewProgram("empty_block")
	fn := p.NewFunction("main")
	fn.NewBlock()

	errs, err := Validate(p)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "missing terminator")
}

func TestValidate_MissingTerminator(t *testing.T) {
	_, _, b := newTestBlock()
	b.Const(Width32, 0)

	errs, err := Validate(b.fn.Program())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "does not end in a terminator")
}

func TestValidate_TerminatorMidBlock(t *testing.T) {
	_, _, b := newTestBlock()
	ret := b.Return(nil)
	b.SetAfter(ret)
	b.Return(nil)

	errs, err := Validate(b.fn.Program())
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Error(), "middle of a block")
}

func TestValidate_OperandWidthRules(t *testing.T) {
	tests := []struct {
		name string
		kind InstrKind
		want string
	}{
		{
			name: "kill mask must be 16-bit",
			kind: &KillSamples{Mask: &Value{ID: 90, Width: Width32}},
			want: "kill mask must be 16-bit",
		},
		{
			name: "discard condition must be boolean",
			kind: &DiscardIf{Cond: &Value{ID: 90, Width: Width32}},
			want: "condition must be 1-bit",
		},
		{
			name: "store_zs depth operand must be 32-bit",
			kind: &StoreZS{
				SampleMask: &Value{ID: 90, Width: Width16},
				Depth:      &Value{ID: 91, Width: Width64},
				Stencil:    &Value{ID: 92, Width: Width16},
			},
			want: "depth operand must be 32-bit",
		},
		{
			name: "store_zs channels must be known bits",
			kind: &StoreZS{
				SampleMask: &Value{ID: 90, Width: Width16},
				Depth:      &Value{ID: 91, Width: Width32},
				Stencil:    &Value{ID: 92, Width: Width16},
				Channels:   ZSChannels(0x8),
			},
			want: "unknown bits",
		},
		{
			name: "store_output needs a value",
			kind: &StoreOutput{Target: OutputDepth},
			want: "stored value operand is missing",
		},
		{
			name: "select arms must agree",
			kind: &Select{
				Cond:  &Value{ID: 90, Width: Width1},
				True:  &Value{ID: 91, Width: Width32},
				False: &Value{ID: 92, Width: Width16},
			},
			want: "arm widths differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, blk, b := newTestBlock()
			b.Return(nil)
			blk.insertAt(0, &Instr{Kind: tt.kind})

			errs, err := Validate(b.fn.Program())
			require.NoError(t, err)
			require.NotEmpty(t, errs)
			require.Contains(t, errs[0].Error(), tt.want)
		})
	}
}

func TestValidate_EdgeConsistency(t *testing.T) {
	p := NewProgram("edges")
	fn := p.NewFunction("main")
	entry := fn.NewBlock()
	exit := fn.NewBlock()
	b := NewBuilder(fn)
	b.SetAtEnd(entry)
	b.Jump(exit)
	b.SetAtEnd(exit)
	b.Return(nil)

	// Tamper with the recorded edges behind the terminator's back.
	exit.Preds = nil

	errs, err := Validate(p)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Error(), "missing the back edge")
}

func TestValidate_TargetOutsideFunction(t *testing.T) {
	p := NewProgram("stray")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	other := p.NewFunction("other")
	stray := other.NewBlock()

	b := NewBuilder(fn)
	b.SetAtEnd(blk)
	b.Jump(stray)

	b2 := NewBuilder(other)
	b2.SetAtEnd(stray)
	b2.Return(nil)

	errs, err := Validate(p)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Error(), "outside the function")
}

func TestValidationError_Context(t *testing.T) {
	e := ValidationError{Message: "boom", Function: "main", Block: 1, Instr: 2}
	require.Equal(t, "in function main, block 1, instruction 2: boom", e.Error())

	e = ValidationError{Message: "boom", Function: "main", Block: 1, Instr: -1}
	require.Equal(t, "in function main, block 1: boom", e.Error())

	e = ValidationError{Message: "boom", Block: -1, Instr: -1}
	require.Equal(t, "boom", e.Error())
}
