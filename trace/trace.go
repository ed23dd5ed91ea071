// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package trace wraps pass execution with structured observability.
//
// A Tracer runs a pass pipeline over a program and logs what each pass
// did: whether it reported progress and how the instruction count
// changed. At debug level it can dump the full textual IR and a deep
// struct dump. The library core never requires a tracer; it exists for
// the CLI and for debugging driver integrations.
package trace

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gogpu/agx/ir"
	"github.com/gogpu/agx/lower"
)

// Tracer runs lowering passes with logging around each one.
type Tracer struct {
	log *zap.Logger

	// DumpIR logs the full textual IR after every pass that made
	// progress, at debug level.
	DumpIR bool

	// DeepDump additionally logs a deep struct dump of the program.
	// Expensive; debugging aid only.
	DeepDump bool
}

// New creates a tracer. A nil logger traces silently.
func New(log *zap.Logger) *Tracer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracer{log: log}
}

// Run executes the passes in order over the program and reports whether
// any of them changed it.
func (t *Tracer) Run(p *ir.Program, passes []lower.Pass) bool {
	any := false
	for _, pass := range passes {
		before := countInstrs(p)
		progress := pass.Run(p)
		after := countInstrs(p)

		t.log.Info("pass finished",
			zap.String("program", p.Name),
			zap.String("pass", pass.Name),
			zap.Bool("progress", progress),
			zap.Int("instrs_before", before),
			zap.Int("instrs_after", after),
		)

		if progress && t.DumpIR {
			t.log.Debug("ir after pass",
				zap.String("pass", pass.Name),
				zap.String("ir", ir.Sprint(p)),
			)
		}
		if progress && t.DeepDump {
			t.log.Debug("program dump",
				zap.String("pass", pass.Name),
				zap.String("dump", spew.Sdump(p)),
			)
		}

		any = any || progress
	}
	return any
}

// WriteDump writes the textual IR of a program to w.
func WriteDump(w io.Writer, p *ir.Program) error {
	if err := ir.Fprint(w, p); err != nil {
		return errors.Wrapf(err, "dumping program %q", p.Name)
	}
	return nil
}

func countInstrs(p *ir.Program) int {
	n := 0
	for _, fn := range p.Functions {
		for _, blk := range fn.Blocks {
			n += len(blk.Instrs)
		}
	}
	return n
}
