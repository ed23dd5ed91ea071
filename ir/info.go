// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "github.com/bits-and-blooms/bitset"

// Info summarizes program-wide facts gathered by scanning the IR.
// Lowering passes consult it only as fast-exit guards; it is the
// producer's responsibility to keep it current, either by setting the
// fields while emitting IR or by calling UpdateInfo.
type Info struct {
	// OutputsWritten marks the output locations the program writes
	// statically, indexed by OutputTarget.
	OutputsWritten *bitset.BitSet

	// UsesDiscard reports whether the program ever executes a discard
	// operation.
	UsesDiscard bool
}

func newInfo() Info {
	return Info{OutputsWritten: bitset.New(uint(OutputColor7) + 1)}
}

// Writes reports whether the given output location is statically written.
func (i *Info) Writes(t OutputTarget) bool {
	return i.OutputsWritten.Test(uint(t))
}

// WritesAny reports whether any of the given output locations is
// statically written.
func (i *Info) WritesAny(targets ...OutputTarget) bool {
	for _, t := range targets {
		if i.Writes(t) {
			return true
		}
	}
	return false
}

// MarkWritten records an output location as statically written.
func (i *Info) MarkWritten(t OutputTarget) {
	i.OutputsWritten.Set(uint(t))
}

// UpdateInfo recomputes the program summary by scanning every
// instruction. The fused forms count: a program whose stores were
// already lowered still reports its depth/stencil channels as written.
func UpdateInfo(p *Program) {
	info := newInfo()
	for _, fn := range p.Functions {
		for _, blk := range fn.Blocks {
			for _, in := range blk.Instrs {
				switch k := in.Kind.(type) {
				case *StoreOutput:
					info.MarkWritten(k.Target)
				case *StoreZS:
					if k.Channels&ZSChannelDepth != 0 {
						info.MarkWritten(OutputDepth)
					}
					if k.Channels&ZSChannelStencil != 0 {
						info.MarkWritten(OutputStencil)
					}
				case *Discard, *DiscardIf, *KillSamples:
					info.UsesDiscard = true
				}
			}
		}
	}
	p.Info = info
}
