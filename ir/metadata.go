// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"github.com/oleiade/lane"
	"gonum.org/v1/gonum/graph/flow"
	"gonum.org/v1/gonum/graph/simple"
)

// Metadata is a set of cached per-function analysis facts.
//
// Transformations never recompute analyses. After running over a
// function, a pass calls Preserve with the facts it kept intact;
// consumers call Require to compute whatever is missing.
type Metadata uint32

const (
	// MetadataBlockIndex means Block.Index holds a reverse-postorder
	// numbering of the CFG.
	MetadataBlockIndex Metadata = 1 << iota

	// MetadataDominance means Block.IDom holds the immediate dominator
	// tree.
	MetadataDominance

	// MetadataInstrIndex means Instr.Index holds a function-wide
	// instruction numbering.
	MetadataInstrIndex
)

const (
	// MetadataNone preserves nothing: all cached facts are dropped.
	MetadataNone Metadata = 0

	// MetadataAll preserves every cached fact.
	MetadataAll Metadata = ^Metadata(0)
)

// Valid reports whether all the given facts are currently valid.
func (f *Function) Valid(flags Metadata) bool {
	return f.valid&flags == flags
}

// Preserve declares that only the given facts survived a transformation.
// Facts outside flags are invalidated; facts in flags that were not
// valid before do not become valid.
func (f *Function) Preserve(flags Metadata) {
	f.valid &= flags
}

// Require computes any of the given facts that are not currently valid.
func (f *Function) Require(flags Metadata) {
	if flags&MetadataBlockIndex != 0 && !f.Valid(MetadataBlockIndex) {
		f.computeBlockIndex()
		f.valid |= MetadataBlockIndex
	}
	if flags&MetadataDominance != 0 && !f.Valid(MetadataDominance) {
		f.computeDominance()
		f.valid |= MetadataDominance
	}
	if flags&MetadataInstrIndex != 0 && !f.Valid(MetadataInstrIndex) {
		f.computeInstrIndex()
		f.valid |= MetadataInstrIndex
	}
}

// computeBlockIndex numbers the blocks in reverse postorder, using an
// explicit worklist stack instead of recursion.
func (f *Function) computeBlockIndex() {
	if len(f.Blocks) == 0 {
		return
	}

	type frame struct {
		block *Block
		succ  int
	}

	visited := make(map[*Block]struct{}, len(f.Blocks))
	postorder := make([]*Block, 0, len(f.Blocks))

	stack := lane.NewStack()
	stack.Push(&frame{block: f.Entry()})
	visited[f.Entry()] = struct{}{}

	for !stack.Empty() {
		top := stack.Head().(*frame)
		if top.succ < len(top.block.Succs) {
			next := top.block.Succs[top.succ]
			top.succ++
			if _, ok := visited[next]; !ok {
				visited[next] = struct{}{}
				stack.Push(&frame{block: next})
			}
			continue
		}
		stack.Pop()
		postorder = append(postorder, top.block)
	}

	// Reverse postorder over the reachable blocks; unreachable blocks
	// keep numbering after them in layout order.
	idx := 0
	for i := len(postorder) - 1; i >= 0; i-- {
		postorder[i].Index = idx
		idx++
	}
	for _, blk := range f.Blocks {
		if _, ok := visited[blk]; !ok {
			blk.Index = idx
			idx++
		}
	}
}

// computeDominance computes immediate dominators by mirroring the CFG
// into a directed graph and running the standard dominator-tree
// construction over it.
func (f *Function) computeDominance() {
	if len(f.Blocks) == 0 {
		return
	}

	g := simple.NewDirectedGraph()
	byID := make(map[int64]*Block, len(f.Blocks))
	ids := make(map[*Block]int64, len(f.Blocks))
	for i, blk := range f.Blocks {
		id := int64(i)
		g.AddNode(simple.Node(id))
		byID[id] = blk
		ids[blk] = id
	}
	for _, blk := range f.Blocks {
		for _, succ := range blk.Succs {
			if succ == blk {
				// A self loop cannot change any immediate dominator.
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(ids[blk]), T: simple.Node(ids[succ])})
		}
	}

	tree := flow.Dominators(simple.Node(ids[f.Entry()]), g)
	for _, blk := range f.Blocks {
		blk.IDom = nil
		if dom := tree.DominatorOf(ids[blk]); dom != nil {
			blk.IDom = byID[dom.ID()]
		}
	}
	f.Entry().IDom = nil
}

// computeInstrIndex numbers every instruction in block layout order.
func (f *Function) computeInstrIndex() {
	idx := 0
	for _, blk := range f.Blocks {
		for _, in := range blk.Instrs {
			in.Index = idx
			idx++
		}
	}
}

// InstructionsPass runs a rewrite over every instruction of every block
// of every function, in layout order, and applies the metadata contract
// per function: when the rewrite reported progress anywhere in the
// function, only the facts in preserved survive; otherwise all facts
// survive.
//
// The per-block instruction list is snapshotted before rewriting, so a
// rewrite may remove its own instruction and insert new ones through
// the builder.
func InstructionsPass(p *Program, rewrite func(*Builder, *Instr) bool, preserved Metadata) bool {
	any := false
	for _, fn := range p.Functions {
		b := NewBuilder(fn)
		progress := false
		for _, blk := range fn.Blocks {
			snapshot := make([]*Instr, len(blk.Instrs))
			copy(snapshot, blk.Instrs)
			for _, in := range snapshot {
				if rewrite(b, in) {
					progress = true
				}
			}
		}
		if progress {
			fn.Preserve(preserved)
		} else {
			fn.Preserve(MetadataAll)
		}
		any = any || progress
	}
	return any
}
