// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lower

import "github.com/gogpu/agx/ir"

// discardInstr rewrites a single discard or discard_if into a fused
// kill_samples and reports whether it matched. Replacement is
// one-for-one: discards are never merged.
func discardInstr(b *ir.Builder, in *ir.Instr) bool {
	var cond *ir.Value

	switch k := in.Kind.(type) {
	case *ir.Discard:
	case *ir.DiscardIf:
		cond = k.Cond
	default:
		return false
	}

	b.SetBefore(in)

	allSamples := b.Const(ir.Width16, 0xFFFF)
	noSamples := b.Const(ir.Width16, 0x0000)
	killedSamples := allSamples

	if cond != nil {
		killedSamples = b.Select(cond, allSamples, noSamples)
	}

	// This will get lowered later as needed.
	b.KillSamples(killedSamples)
	in.Block().Remove(in)
	return true
}

// Discard rewrites every discard in the program into its fused form.
// Returns whether anything changed.
func Discard(p *ir.Program) bool {
	if !p.Info.UsesDiscard {
		return false
	}

	return ir.InstructionsPass(p, discardInstr,
		ir.MetadataBlockIndex|ir.MetadataDominance)
}
