// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveConst_Literal(t *testing.T) {
	_, _, b := newTestBlock()
	v := b.Const(Width16, 0xFFFF)

	c, ok := ResolveConst(v)
	require.True(t, ok)
	require.Equal(t, Width16, c.Width)
	require.Equal(t, uint64(0xFFFF), c.Bits)
}

func TestResolveConst_UConvertTruncates(t *testing.T) {
	_, _, b := newTestBlock()
	wide := b.Const(Width32, 0x1ABCD)
	narrow := b.UConvertTo(Width16, wide)

	c, ok := ResolveConst(narrow)
	require.True(t, ok)
	require.Equal(t, uint64(0xABCD), c.Bits)
}

func TestResolveConst_FConvertNarrows(t *testing.T) {
	_, _, b := newTestBlock()
	wide := b.Const(Width64, math.Float64bits(1.5))
	narrow := b.FConvertTo(Width32, wide)

	c, ok := ResolveConst(narrow)
	require.True(t, ok)
	require.Equal(t, Width32, c.Width)
	require.Equal(t, uint64(math.Float32bits(1.5)), c.Bits)
}

func TestResolveConst_SelectFolds(t *testing.T) {
	tests := []struct {
		name string
		cond uint64
		want uint64
	}{
		{name: "true picks first arm", cond: 1, want: 0xAAAA},
		{name: "false picks second arm", cond: 0, want: 0x5555},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, b := newTestBlock()
			cond := b.Const(Width1, tt.cond)
			sel := b.Select(cond, b.Const(Width16, 0xAAAA), b.Const(Width16, 0x5555))

			c, ok := ResolveConst(sel)
			require.True(t, ok)
			require.Equal(t, tt.want, c.Bits)
		})
	}
}

func TestResolveConst_Unresolvable(t *testing.T) {
	_, _, b := newTestBlock()

	input := b.LoadInput(Width32, 0)
	_, ok := ResolveConst(input)
	require.False(t, ok, "inputs are not statically known")

	undef := b.Undef(Width32)
	_, ok = ResolveConst(undef)
	require.False(t, ok, "undef is not a constant")

	sel := b.Select(b.Binary(OpLess, input, input), b.Const(Width32, 1), b.Const(Width32, 2))
	_, ok = ResolveConst(sel)
	require.False(t, ok, "select on a dynamic condition")

	_, ok = ResolveConst(nil)
	require.False(t, ok)
}
