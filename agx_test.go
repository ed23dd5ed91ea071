// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package agx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/agx/ir"
	"github.com/gogpu/agx/trace"
)

func fragProgram() *ir.Program {
	p := ir.NewProgram("frag")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	b := ir.NewBuilder(fn)
	b.SetAtEnd(blk)
	b.StoreOutput(ir.OutputDepth, b.LoadInput(ir.Width64, 0))
	b.DiscardIf(b.Binary(ir.OpLess, b.LoadInput(ir.Width32, 1), b.Const(ir.Width32, 1)))
	b.Return(nil)
	ir.UpdateInfo(p)
	return p
}

func TestLower_Defaults(t *testing.T) {
	p := fragProgram()

	changed, err := Lower(p)
	require.NoError(t, err)
	require.True(t, changed)

	// Running again finds nothing left to rewrite.
	changed, err = Lower(p)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestLowerWithOptions_ValidationRejectsMalformedInput(t *testing.T) {
	p := ir.NewProgram("broken")
	p.NewFunction("main") // no blocks

	changed, err := LowerWithOptions(p, DefaultOptions())
	require.Error(t, err)
	require.Contains(t, err.Error(), "before lowering")
	require.False(t, changed)
}

func TestLowerWithOptions_SkipValidation(t *testing.T) {
	p := fragProgram()
	changed, err := LowerWithOptions(p, Options{Validate: false})
	require.NoError(t, err)
	require.True(t, changed)
}

func TestLowerWithOptions_WithTracer(t *testing.T) {
	p := fragProgram()
	opts := DefaultOptions()
	opts.Tracer = trace.New(nil)

	changed, err := LowerWithOptions(p, opts)
	require.NoError(t, err)
	require.True(t, changed)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.True(t, opts.Validate)
	require.Nil(t, opts.Tracer)
}
