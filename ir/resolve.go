// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "math"

// Constant is the result of folding a value to a literal.
type Constant struct {
	Width Width
	Bits  uint64
}

// ResolveConst folds a value through literal, conversion, and select
// chains. Returns false when the value depends on anything that is not
// statically known (inputs, undef, ALU results on non-constants).
//
// Used for symbolic evaluation in tests and by diagnostic tooling; the
// lowering passes themselves never fold.
func ResolveConst(v *Value) (Constant, bool) {
	if v == nil || v.Def == nil {
		return Constant{}, false
	}
	switch k := v.Def.Kind.(type) {
	case *Const:
		return Constant{Width: v.Width, Bits: k.Bits & widthMask(v.Width)}, true

	case *UConvert:
		src, ok := ResolveConst(k.Src)
		if !ok {
			return Constant{}, false
		}
		return Constant{Width: v.Width, Bits: src.Bits & widthMask(v.Width)}, true

	case *FConvert:
		src, ok := ResolveConst(k.Src)
		if !ok {
			return Constant{}, false
		}
		bits, ok := foldFloatConvert(src, v.Width)
		if !ok {
			return Constant{}, false
		}
		return Constant{Width: v.Width, Bits: bits}, true

	case *Select:
		cond, ok := ResolveConst(k.Cond)
		if !ok {
			return Constant{}, false
		}
		if cond.Bits != 0 {
			return ResolveConst(k.True)
		}
		return ResolveConst(k.False)
	}
	return Constant{}, false
}

func widthMask(w Width) uint64 {
	if w == Width64 {
		return ^uint64(0)
	}
	return (uint64(1) << w) - 1
}

// foldFloatConvert re-encodes a floating bit pattern at another width.
// 16-bit floats are left unresolved.
func foldFloatConvert(src Constant, to Width) (uint64, bool) {
	switch {
	case src.Width == to:
		return src.Bits, true
	case src.Width == Width64 && to == Width32:
		return uint64(math.Float32bits(float32(math.Float64frombits(src.Bits)))), true
	case src.Width == Width32 && to == Width64:
		return math.Float64bits(float64(math.Float32frombits(uint32(src.Bits)))), true
	}
	return 0, false
}
