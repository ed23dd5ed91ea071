// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package agx provides a Pure Go fragment-shader backend lowering library.
//
// agx takes a backend IR program (see the ir package) and rewrites the
// generic fragment operations — depth/stencil output writes and pixel
// discard — into the fused forms the target hardware executes:
//   - store_zs — combined depth/stencil/sample-mask store
//   - kill_samples — per-sample kill-mask discard
//
// The package provides a simple, high-level API over the pass pipeline
// as well as lower-level access to the individual passes.
//
// Example usage:
//
//	p := ir.NewProgram("frag")
//	fn := p.NewFunction("main")
//	blk := fn.NewBlock()
//	b := ir.NewBuilder(fn)
//	b.SetAtEnd(blk)
//	b.StoreOutput(ir.OutputDepth, b.LoadInput(ir.Width32, 0))
//	b.Return(nil)
//	ir.UpdateInfo(p)
//
//	changed, err := agx.Lower(p, agx.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For direct control, use the lower package:
//
//	progress := lower.DiscardZSEmit(p)
//
// For register-level state encoding of a lowered program, use the cs
// package:
//
//	stream := cs.EncodeFragmentState(p)
package agx

import (
	"fmt"

	"github.com/gogpu/agx/ir"
	"github.com/gogpu/agx/lower"
	"github.com/gogpu/agx/trace"
)

// Options configures lowering.
type Options struct {
	// Validate enables IR validation before and after the passes.
	Validate bool

	// Tracer, when set, wraps pass execution with logging.
	Tracer *trace.Tracer
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Validate: true,
		Tracer:   nil,
	}
}

// Lower runs the full lowering pipeline over a program using default
// options.
func Lower(p *ir.Program) (bool, error) {
	return LowerWithOptions(p, DefaultOptions())
}

// LowerWithOptions runs the full lowering pipeline with custom options.
//
// The pipeline is:
//  1. Validate the incoming IR (if enabled)
//  2. Merge depth/stencil writes into fused stores
//  3. Rewrite discards into fused sample kills
//  4. Validate the lowered IR (if enabled)
//
// Returns whether any pass changed the program. Validation findings are
// returned as errors; broken pass invariants panic (they indicate bugs
// in the IR producer, not recoverable conditions).
func LowerWithOptions(p *ir.Program, opts Options) (bool, error) {
	if opts.Validate {
		if err := validate(p, "before lowering"); err != nil {
			return false, err
		}
	}

	var changed bool
	if opts.Tracer != nil {
		changed = opts.Tracer.Run(p, lower.Passes)
	} else {
		changed = lower.DiscardZSEmit(p)
	}

	if opts.Validate {
		if err := validate(p, "after lowering"); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func validate(p *ir.Program, stage string) error {
	validationErrors, err := ir.Validate(p)
	if err != nil {
		return fmt.Errorf("validation error %s: %w", stage, err)
	}
	if len(validationErrors) > 0 {
		return fmt.Errorf("validation failed %s: %w", stage, &validationErrors[0])
	}
	return nil
}
