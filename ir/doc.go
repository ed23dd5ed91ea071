// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ir defines the backend intermediate representation for agx.
//
// Unlike the source-level IR used by shader translators, this IR sits on
// the target side of the pipeline: a program is a flat list of functions,
// each function an ordered list of basic blocks, each block an ordered
// list of instructions ending in a terminator. Values are SSA references
// produced by instructions and immutable once defined.
//
// # Structure
//
// A Program contains:
//   - Functions: ordered function definitions, each a CFG of basic blocks
//   - Info: summary facts about the program (outputs written, discard use)
//
// Instructions are a closed sum over operation kinds: each kind carries
// only the operand slots and payload relevant to that kind, and passes
// switch over kinds exhaustively.
//
// # Construction
//
// Programs are built through Builder, which maintains an insertion cursor
// (before/after an instruction, or at a block boundary) and allocates SSA
// values. Lowering passes use the same builder to splice replacement
// instructions next to the ones they rewrite.
//
// # Analysis metadata
//
// Functions cache analysis results (block indexing, dominance) behind a
// validity mask. Transformations never recompute analyses; they declare
// which facts they preserved via Function.Preserve, and consumers call
// Function.Require to compute whatever is missing.
//
// # References
//
// The design follows the NIR backend-IR conventions used by Mesa drivers,
// expressed with the sum-type and handle idioms of the naga Go port:
// https://github.com/gogpu/naga
package ir
