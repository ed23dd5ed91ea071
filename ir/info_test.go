// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateInfo_OutputMaskAndDiscard(t *testing.T) {
	_, _, b := newTestBlock()
	b.StoreOutput(OutputDepth, b.LoadInput(Width32, 0))
	b.StoreOutput(OutputColor1, b.LoadInput(Width32, 1))
	b.DiscardIf(b.Const(Width1, 1))
	b.Return(nil)

	p := b.fn.Program()
	UpdateInfo(p)

	require.True(t, p.Info.Writes(OutputDepth))
	require.True(t, p.Info.Writes(OutputColor1))
	require.False(t, p.Info.Writes(OutputStencil))
	require.False(t, p.Info.Writes(OutputColor0))
	require.True(t, p.Info.WritesAny(OutputDepth, OutputStencil))
	require.True(t, p.Info.UsesDiscard)
}

func TestUpdateInfo_Empty(t *testing.T) {
	_, _, b := newTestBlock()
	b.Return(nil)

	p := b.fn.Program()
	UpdateInfo(p)

	require.False(t, p.Info.WritesAny(OutputDepth, OutputStencil))
	require.False(t, p.Info.UsesDiscard)
}

func TestUpdateInfo_CountsFusedForms(t *testing.T) {
	// A program that was already lowered still reports its channels and
	// discard use, so re-running UpdateInfo never loses facts.
	_, _, b := newTestBlock()
	mask := b.Const(Width16, 0xFF)
	fused := b.StoreZS(mask, b.Undef(Width32), b.Undef(Width16))
	fused.Kind.(*StoreZS).Channels = ZSChannelStencil
	b.KillSamples(b.Const(Width16, 0xFFFF))
	b.Return(nil)

	p := b.fn.Program()
	UpdateInfo(p)

	require.True(t, p.Info.Writes(OutputStencil))
	require.False(t, p.Info.Writes(OutputDepth))
	require.True(t, p.Info.UsesDiscard)
}

func TestInfo_MarkWritten(t *testing.T) {
	p := NewProgram("marks")
	require.False(t, p.Info.Writes(OutputColor7))
	p.Info.MarkWritten(OutputColor7)
	require.True(t, p.Info.Writes(OutputColor7))
}
