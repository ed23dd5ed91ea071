// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cs

import "github.com/gogpu/agx/ir"

// RegZSControl bits.
const (
	// ZSControlDepthWrite enables the fused depth channel.
	ZSControlDepthWrite uint32 = 1 << 0

	// ZSControlStencilWrite enables the fused stencil channel.
	ZSControlStencilWrite uint32 = 1 << 1
)

// RegKillControl bits.
const (
	// KillControlEnable marks that the program executes sample kills.
	KillControlEnable uint32 = 1 << 0

	// killControlMaskShift positions the default broadcast mask.
	killControlMaskShift = 8
)

// EncodeFragmentState packs the fragment-output hardware state implied
// by a lowered program: which fused Z/S channels the program supplies,
// whether it kills samples, and which color targets it writes.
//
// The program must already be lowered; generic store_output writes to
// depth or stencil are a contract violation at this stage.
func EncodeFragmentState(p *ir.Program) *Stream {
	var zs uint32
	var kill uint32
	var outputs uint32

	for _, fn := range p.Functions {
		for _, blk := range fn.Blocks {
			for _, in := range blk.Instrs {
				switch k := in.Kind.(type) {
				case *ir.StoreOutput:
					if k.Target == ir.OutputDepth || k.Target == ir.OutputStencil {
						panic("cs: encoding a program with unlowered depth/stencil writes")
					}
				case *ir.Discard, *ir.DiscardIf:
					panic("cs: encoding a program with unlowered discards")
				case *ir.StoreZS:
					if k.Channels&ir.ZSChannelDepth != 0 {
						zs |= ZSControlDepthWrite
					}
					if k.Channels&ir.ZSChannelStencil != 0 {
						zs |= ZSControlStencilWrite
					}
				case *ir.KillSamples:
					kill |= KillControlEnable
				}
			}
		}
	}

	for t := ir.OutputColor0; t <= ir.OutputColor7; t++ {
		if p.Info.Writes(t) {
			outputs |= 1 << (t - ir.OutputColor0)
		}
	}

	if kill != 0 {
		kill |= 0xFF << killControlMaskShift
	}

	s := New()
	s.Reserve(5)
	s.SetFragRegSeq(RegZSControl, 3)
	s.Emit(zs)
	s.Emit(kill)
	s.Emit(outputs)
	return s
}
