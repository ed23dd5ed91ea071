// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command agxlower lowers built-in sample fragment programs and shows
// the result.
//
// Usage:
//
//	agxlower list
//	agxlower lower [flags] <sample>
//	agxlower encode [flags] <sample>
//
// Examples:
//
//	agxlower lower zs               # Lower, print IR before/after
//	agxlower lower -t mixed         # Lower with pass tracing
//	agxlower encode discard         # Lower and dump the state packets
//	agxlower lower -c opts.toml zs  # Options from a TOML file
package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gogpu/agx"
	"github.com/gogpu/agx/cs"
	"github.com/gogpu/agx/trace"
)

const agxVersion = "0.1.0-dev"

// config holds the tool options, loadable from a TOML file and
// overridable by flags.
type config struct {
	Validate bool `toml:"validate"`
	Trace    bool `toml:"trace"`
	DumpIR   bool `toml:"dump_ir"`
	DeepDump bool `toml:"deep_dump"`
}

var (
	cfg        = config{Validate: true}
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:           "agxlower",
		Short:         "agxlower rewrites fragment programs into fused hardware operations",
		Version:       agxVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "TOML options file")
	pf.BoolVar(&cfg.Validate, "validate", cfg.Validate, "validate IR before and after lowering")
	pf.BoolVarP(&cfg.Trace, "trace", "t", cfg.Trace, "log per-pass progress")
	pf.BoolVar(&cfg.DumpIR, "dump-ir", cfg.DumpIR, "dump IR after each pass at debug level")
	pf.BoolVar(&cfg.DeepDump, "deep-dump", cfg.DeepDump, "deep struct dump after each pass (slow)")

	root.AddCommand(listCmd(), lowerCmd(), encodeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies the TOML file first so explicit flags win.
func loadConfig(cmd *cobra.Command) error {
	if configPath == "" {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", configPath)
	}
	var fileCfg config
	fileCfg.Validate = cfg.Validate
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return errors.Wrapf(err, "parsing config %s", configPath)
	}
	flags := cmd.Flags()
	if !flags.Changed("validate") {
		cfg.Validate = fileCfg.Validate
	}
	if !flags.Changed("trace") {
		cfg.Trace = fileCfg.Trace
	}
	if !flags.Changed("dump-ir") {
		cfg.DumpIR = fileCfg.DumpIR
	}
	if !flags.Changed("deep-dump") {
		cfg.DeepDump = fileCfg.DeepDump
	}
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in sample programs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range sampleNames() {
				fmt.Println(name)
			}
		},
	}
}

func lowerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lower <sample>",
		Short: "Lower a sample program and print the IR before and after",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildSample(args[0])
			if err != nil {
				return err
			}

			fmt.Println("--- before ---")
			if err := trace.WriteDump(os.Stdout, p); err != nil {
				return err
			}

			changed, err := agx.LowerWithOptions(p, lowerOptions())
			if err != nil {
				return err
			}

			fmt.Println("--- after ---")
			if err := trace.WriteDump(os.Stdout, p); err != nil {
				return err
			}
			fmt.Printf("changed: %v\n", changed)
			return nil
		},
	}
}

func encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <sample>",
		Short: "Lower a sample program and dump its fragment-state packets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildSample(args[0])
			if err != nil {
				return err
			}
			if _, err := agx.LowerWithOptions(p, lowerOptions()); err != nil {
				return err
			}

			stream := cs.EncodeFragmentState(p)
			for i, w := range stream.Words() {
				fmt.Printf("%04d: %08x\n", i, w)
			}
			return nil
		},
	}
}

func lowerOptions() agx.Options {
	opts := agx.Options{Validate: cfg.Validate}
	if cfg.Trace {
		log, err := zap.NewDevelopment()
		if err == nil {
			t := trace.New(log)
			t.DumpIR = cfg.DumpIR
			t.DeepDump = cfg.DeepDump
			opts.Tracer = t
		}
	}
	return opts
}
