// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"fmt"
	"io"
	"strings"
)

// Sprint renders a program in textual form. The output is stable for a
// given program structure, so tests compare dumps to detect structural
// change.
func Sprint(p *Program) string {
	var sb strings.Builder
	printProgram(&sb, p)
	return sb.String()
}

// Fprint writes the textual form of a program to w.
func Fprint(w io.Writer, p *Program) error {
	_, err := io.WriteString(w, Sprint(p))
	return err
}

func printProgram(sb *strings.Builder, p *Program) {
	fmt.Fprintf(sb, "program %q\n", p.Name)
	for _, fn := range p.Functions {
		fmt.Fprintf(sb, "fn %s {\n", fn.Name)
		for i, blk := range fn.Blocks {
			fmt.Fprintf(sb, "b%d:\n", i)
			for _, in := range blk.Instrs {
				sb.WriteString("  ")
				printInstr(sb, fn, in)
				sb.WriteByte('\n')
			}
		}
		sb.WriteString("}\n")
	}
}

func printInstr(sb *strings.Builder, fn *Function, in *Instr) {
	if in.Result != nil {
		fmt.Fprintf(sb, "%s = %s.%d", in.Result, in.Op(), in.Result.Width)
	} else {
		sb.WriteString(in.Op())
	}

	switch k := in.Kind.(type) {
	case *Const:
		fmt.Fprintf(sb, " %#x", k.Bits)
	case *Undef:
	case *FConvert:
		fmt.Fprintf(sb, " %s", k.Src)
	case *UConvert:
		fmt.Fprintf(sb, " %s", k.Src)
	case *Select:
		fmt.Fprintf(sb, " %s, %s, %s", k.Cond, k.True, k.False)
	case *LoadInput:
		fmt.Fprintf(sb, " loc%d", k.Location)
	case *Binary:
		fmt.Fprintf(sb, " %s, %s", k.LHS, k.RHS)
	case *StoreOutput:
		fmt.Fprintf(sb, " %s, %s", k.Target, k.Src)
	case *Discard:
	case *DiscardIf:
		fmt.Fprintf(sb, " %s", k.Cond)
	case *StoreZS:
		fmt.Fprintf(sb, " %s(mask), %s(z), %s(s), channels=%s", k.SampleMask, k.Depth, k.Stencil, channelString(k.Channels))
	case *KillSamples:
		fmt.Fprintf(sb, " %s", k.Mask)
	case *Jump:
		fmt.Fprintf(sb, " b%d", blockLabel(fn, k.To))
	case *Branch:
		fmt.Fprintf(sb, " %s, b%d, b%d", k.Cond, blockLabel(fn, k.Then), blockLabel(fn, k.Else))
	case *Return:
		if k.Src != nil {
			fmt.Fprintf(sb, " %s", k.Src)
		}
	}
}

func channelString(ch ZSChannels) string {
	switch ch {
	case 0:
		return "none"
	case ZSChannelDepth:
		return "z"
	case ZSChannelStencil:
		return "s"
	case ZSChannelDepth | ZSChannelStencil:
		return "zs"
	}
	return fmt.Sprintf("%#x", uint8(ch))
}

// blockLabel resolves a block to its position in the function layout,
// independent of the cached Index metadata.
func blockLabel(fn *Function, blk *Block) int {
	for i, b := range fn.Blocks {
		if b == blk {
			return i
		}
	}
	return -1
}
