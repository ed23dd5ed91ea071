// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package lower rewrites generic fragment-shader IR into the fused
// operations the target hardware expects.
//
// The hardware exposes depth, stencil, and per-sample kill-mask writes
// as one combined instruction, so two sub-passes run in a fixed order:
//
//  1. ZSEmit folds per-block depth/stencil output writes into a single
//     fused store_zs per block.
//  2. Discard rewrites unconditional and conditional pixel kills into
//     fused kill_samples operations.
//
// DiscardZSEmit runs both. Each pass returns whether it changed the
// program; callers use the flag to decide whether dependent analyses
// must re-run.
package lower

import "github.com/gogpu/agx/ir"

// AllSamples is the broadcast sample mask: every sample of the pixel.
// Multisampling is lowered later if needed, so fused stores default to
// broadcast.
const AllSamples = 0xFF

// Pass is a named program transformation.
type Pass struct {
	Name string
	Run  func(*ir.Program) bool
}

// Passes lists the lowering passes in their mandated order. The
// depth/stencil merge must complete before discard lowering begins so
// the fused store's interaction with a following kill mask stays
// well-defined.
var Passes = []Pass{
	{Name: "zs-emit", Run: ZSEmit},
	{Name: "discard", Run: Discard},
}

// DiscardZSEmit runs the full lowering in the mandated order and
// reports whether either pass changed the program.
func DiscardZSEmit(p *ir.Program) bool {
	// Lower depth/stencil writes before discard so the interaction works.
	progress := ZSEmit(p)
	progress = Discard(p) || progress
	return progress
}
