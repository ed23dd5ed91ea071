// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import (
	"fmt"

	"github.com/gogpu/agx/ir"
)

// zsEmitBlock folds every depth/stencil output write in a block into a
// single fused store_zs and reports whether it modified the block.
//
// The walk is in reverse order, so the fused store is created at the
// position of the last depth/stencil write in the block and the loop
// index stays valid as matched instructions are removed: removal and
// insertion both happen at or above the cursor, never below it.
func zsEmitBlock(blk *ir.Block) bool {
	var zsEmit *ir.StoreZS
	progress := false

	b := ir.NewBuilder(blk.Function())

	for i := len(blk.Instrs) - 1; i >= 0; i-- {
		in := blk.Instrs[i]
		store, ok := in.Kind.(*ir.StoreOutput)
		if !ok {
			continue
		}
		if store.Target != ir.OutputDepth && store.Target != ir.OutputStencil {
			continue
		}

		b.SetBefore(in)

		value := store.Src
		z := store.Target == ir.OutputDepth

		// In the hw, depth is 32-bit but stencil is 16-bit. Instruction
		// selection checks this, so emit the conversion now.
		if z {
			value = b.FConvertTo(ir.Width32, value)
		} else {
			value = b.UConvertTo(ir.Width16, value)
		}

		if zsEmit == nil {
			mask := b.Const(ir.Width16, AllSamples)
			fused := b.StoreZS(mask, b.Undef(ir.Width32), b.Undef(ir.Width16))
			zsEmit = fused.Kind.(*ir.StoreZS)
		}

		channel := ir.ZSChannelStencil
		if z {
			channel = ir.ZSChannelDepth
		}
		if zsEmit.Channels&channel != 0 {
			panic(fmt.Sprintf("lower: %s written twice in one block", store.Target))
		}

		if z {
			zsEmit.Depth = value
		} else {
			zsEmit.Stencil = value
		}
		zsEmit.Channels |= channel

		blk.Remove(in)
		progress = true
	}

	return progress
}

// ZSEmit runs the depth/stencil merge over every block of every
// function. Returns whether anything changed.
//
// Per-function metadata follows the standard contract: a modified
// function keeps only block indexing and dominance (no blocks or edges
// were added or removed, only instructions within blocks); an untouched
// function keeps everything.
func ZSEmit(p *ir.Program) bool {
	// If depth/stencil isn't written, there's nothing to lower.
	if !p.Info.WritesAny(ir.OutputDepth, ir.OutputStencil) {
		return false
	}

	any := false

	for _, fn := range p.Functions {
		progress := false

		for _, blk := range fn.Blocks {
			progress = zsEmitBlock(blk) || progress
		}

		if progress {
			fn.Preserve(ir.MetadataBlockIndex | ir.MetadataDominance)
		} else {
			fn.Preserve(ir.MetadataAll)
		}

		any = any || progress
	}

	return any
}
