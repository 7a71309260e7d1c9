// Command mplc is the command-line driver for the language's
// lexer/parser/check/codegen/vm pipeline: compile-and-run a source
// file, or drive the same pipeline interactively from a REPL.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/GU-Student-Projects/CPSC326/check"
	"github.com/GU-Student-Projects/CPSC326/codegen"
	"github.com/GU-Student-Projects/CPSC326/lexer"
	"github.com/GU-Student-Projects/CPSC326/parser"
	"github.com/GU-Student-Projects/CPSC326/vm"
)

// Color definitions for CLI output, matching the teacher's convention
// of keeping presentation concerns out of the library packages.
var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

// VERSION identifies this build of the driver.
var VERSION = "v1.0.0"

// fileConfig is the optional mplc.yaml run configuration: the initial
// heap object-id seed and the call-stack depth guard. Either field
// left zero falls back to vm.DefaultConfig.
type fileConfig struct {
	NextOID      int64 `yaml:"next_oid"`
	MaxCallDepth int   `yaml:"max_call_depth"`
}

// loadConfig reads mplc.yaml from the working directory if present,
// overlaying its fields onto vm.DefaultConfig. A missing file is not
// an error; a malformed one is reported and ignored.
func loadConfig() vm.Config {
	cfg := vm.DefaultConfig()
	data, err := os.ReadFile("mplc.yaml")
	if err != nil {
		return cfg
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		redColor.Fprintf(os.Stderr, "[CONFIG ERROR] mplc.yaml: %v\n", err)
		return cfg
	}
	if fc.NextOID != 0 {
		cfg.NextOID = fc.NextOID
	}
	if fc.MaxCallDepth != 0 {
		cfg.MaxCallDepth = fc.MaxCallDepth
	}
	return cfg
}

func main() {
	interactive := flag.Bool("i", false, "start an interactive REPL")
	debug := flag.Bool("debug", false, "dump compiled frame templates before running")
	version := flag.Bool("version", false, "print version information")
	flag.Parse()

	if *version {
		cyanColor.Printf("mplc %s\n", VERSION)
		return
	}

	cfg := loadConfig()

	if *interactive {
		startRepl(cfg, *debug)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: mplc [-i] [-debug] <source-file>")
		os.Exit(2)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read %q: %v\n", args[0], err)
		os.Exit(1)
	}

	if err := compileAndRun(string(src), cfg, *debug, os.Stdin, os.Stdout); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// compileAndRun runs src through the lex/parse/check/codegen/vm
// pipeline, wiring the VM's READ/WRITE opcodes to in and out.
func compileAndRun(src string, cfg vm.Config, debug bool, in *os.File, out *os.File) error {
	lex := lexer.New(lexer.NewStringSource(src))
	p, err := parser.New(lex)
	if err != nil {
		return err
	}
	prog, err := p.Parse()
	if err != nil {
		return err
	}
	if err := check.New().Check(prog); err != nil {
		return err
	}

	target := vm.New(cfg)
	target.SetWriter(out)
	target.SetReader(in)
	gen := codegen.New(target)
	if err := gen.Generate(prog); err != nil {
		return err
	}

	if debug {
		cyanColor.Fprintln(out, target.Dump())
	}
	return target.Run()
}

// reportError colorizes a pipeline failure by its concrete error kind:
// red for every compile-time stage (lex/parse/check/codegen), yellow
// for a runtime VM fault.
func reportError(err error) {
	switch err.(type) {
	case *vm.Error:
		yellowColor.Fprintf(os.Stderr, "[RUNTIME ERROR] %v\n", err)
	default:
		redColor.Fprintf(os.Stderr, "[COMPILE ERROR] %v\n", err)
	}
}
