// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gogpu/agx/ir"
	"github.com/gogpu/agx/lower"
)

func zsProgram() *ir.Program {
	p := ir.NewProgram("traced")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	b := ir.NewBuilder(fn)
	b.SetAtEnd(blk)
	b.StoreOutput(ir.OutputDepth, b.LoadInput(ir.Width32, 0))
	b.DiscardIf(b.Const(ir.Width1, 1))
	b.Return(nil)
	ir.UpdateInfo(p)
	return p
}

func TestTracer_LogsEveryPass(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tr := New(zap.New(core))

	require.True(t, tr.Run(zsProgram(), lower.Passes))

	entries := logs.FilterMessage("pass finished").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	require.Equal(t, "zs-emit", first["pass"])
	require.Equal(t, true, first["progress"])

	second := entries[1].ContextMap()
	require.Equal(t, "discard", second["pass"])
	require.Equal(t, true, second["progress"])
}

func TestTracer_DumpsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tr := New(zap.New(core))
	tr.DumpIR = true

	tr.Run(zsProgram(), lower.Passes)

	dumps := logs.FilterMessage("ir after pass").All()
	require.Len(t, dumps, 2)
	require.Contains(t, dumps[0].ContextMap()["ir"], "store_zs")
}

func TestTracer_NilLoggerIsSilent(t *testing.T) {
	tr := New(nil)
	require.True(t, tr.Run(zsProgram(), lower.Passes))
}

func TestTracer_ReportsNoProgress(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tr := New(zap.New(core))

	p := ir.NewProgram("plain")
	fn := p.NewFunction("main")
	blk := fn.NewBlock()
	b := ir.NewBuilder(fn)
	b.SetAtEnd(blk)
	b.StoreOutput(ir.OutputColor0, b.LoadInput(ir.Width32, 0))
	b.Return(nil)
	ir.UpdateInfo(p)

	require.False(t, tr.Run(p, lower.Passes))
	for _, entry := range logs.FilterMessage("pass finished").All() {
		require.Equal(t, false, entry.ContextMap()["progress"])
	}
}

func TestWriteDump(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteDump(&sb, zsProgram()))
	require.Contains(t, sb.String(), `program "traced"`)
	require.Contains(t, sb.String(), "store_output depth")
}
