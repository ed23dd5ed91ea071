// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/gogpu/agx/ir"
)

// Built-in sample programs, so the tool is usable without a frontend.
var samples = map[string]func() *ir.Program{
	"plain":   samplePlain,
	"depth":   sampleDepth,
	"zs":      sampleZS,
	"discard": sampleDiscard,
	"mixed":   sampleMixed,
}

func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildSample(name string) (*ir.Program, error) {
	build, ok := samples[name]
	if !ok {
		return nil, errors.Errorf("unknown sample %q (try: %v)", name, sampleNames())
	}
	p := build()
	ir.UpdateInfo(p)
	return p, nil
}

// samplePlain writes one color output and nothing else.
func samplePlain() *ir.Program {
	p := ir.NewProgram("plain")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	b := ir.NewBuilder(fn)
	b.SetAtEnd(blk)
	color := b.LoadInput(ir.Width32, 0)
	b.StoreOutput(ir.OutputColor0, color)
	b.Return(nil)
	return p
}

// sampleDepth writes a 64-bit depth value, exercising the narrowing
// conversion.
func sampleDepth() *ir.Program {
	p := ir.NewProgram("depth")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	b := ir.NewBuilder(fn)
	b.SetAtEnd(blk)
	depth := b.LoadInput(ir.Width64, 0)
	b.StoreOutput(ir.OutputDepth, depth)
	b.Return(nil)
	return p
}

// sampleZS writes both depth and stencil in one block.
func sampleZS() *ir.Program {
	p := ir.NewProgram("zs")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	b := ir.NewBuilder(fn)
	b.SetAtEnd(blk)
	depth := b.LoadInput(ir.Width32, 0)
	stencil := b.LoadInput(ir.Width32, 1)
	b.StoreOutput(ir.OutputDepth, depth)
	b.StoreOutput(ir.OutputStencil, stencil)
	b.Return(nil)
	return p
}

// sampleDiscard kills the fragment when an input is below a threshold.
func sampleDiscard() *ir.Program {
	p := ir.NewProgram("discard")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	b := ir.NewBuilder(fn)
	b.SetAtEnd(blk)
	alpha := b.LoadInput(ir.Width32, 0)
	threshold := b.Const(ir.Width32, 0x3D4CCCCD) // 0.05f
	cond := b.Binary(ir.OpLess, alpha, threshold)
	b.DiscardIf(cond)
	b.StoreOutput(ir.OutputColor0, alpha)
	b.Return(nil)
	return p
}

// sampleMixed combines a depth write with a conditional discard across
// two blocks.
func sampleMixed() *ir.Program {
	p := ir.NewProgram("mixed")
	fn := p.NewFunction("main")
	entry := fn.NewBlock()
	kill := fn.NewBlock()
	exit := fn.NewBlock()
	b := ir.NewBuilder(fn)

	b.SetAtEnd(entry)
	depth := b.LoadInput(ir.Width32, 0)
	b.StoreOutput(ir.OutputDepth, depth)
	cover := b.LoadInput(ir.Width32, 1)
	zero := b.Const(ir.Width32, 0)
	cond := b.Binary(ir.OpLess, zero, cover)
	b.Branch(cond, exit, kill)

	b.SetAtEnd(kill)
	b.Discard()
	b.Jump(exit)

	b.SetAtEnd(exit)
	b.StoreOutput(ir.OutputColor0, cover)
	b.Return(nil)
	return p
}
