package main

import (
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/GU-Student-Projects/CPSC326/vm"
)

var (
	blueColor  = color.New(color.FgBlue)
	greenColor = color.New(color.FgGreen)
)

const (
	replPrompt = "mplc >>> "
	replLine   = "----------------------------------------------------------------"
	replBanner = "mplc — a small statically-typed imperative language"
)

// startRepl drives the same lex/parse/check/codegen/vm pipeline as
// file mode, but interactively: source accumulates across lines until
// .run compiles and executes the whole buffer, mirroring the
// teacher's repl.Repl (banner, prompt, history) driven by a compiler
// pipeline instead of a tree-walk evaluator.
func startRepl(cfg vm.Config, debug bool) {
	printBanner()

	rl, err := readline.New(replPrompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	var buf strings.Builder

	for {
		line, err := rl.Readline()
		if err != nil {
			os.Stdout.WriteString("Good Bye!\n")
			return
		}
		trimmed := strings.TrimSpace(line)

		switch trimmed {
		case "":
			continue
		case ".exit":
			os.Stdout.WriteString("Good Bye!\n")
			return
		case ".reset":
			buf.Reset()
			cyanColor.Println("buffer cleared")
			continue
		case ".run":
			src := buf.String()
			if strings.TrimSpace(src) == "" {
				cyanColor.Println("nothing to run")
				continue
			}
			if err := compileAndRun(src, cfg, debug, os.Stdin, os.Stdout); err != nil {
				reportError(err)
			}
			buf.Reset()
			continue
		}

		rl.SaveHistory(line)
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func printBanner() {
	blueColor.Println(replLine)
	greenColor.Println(replBanner)
	blueColor.Println(replLine)
	cyanColor.Println("Type struct and function definitions, then .run to compile and execute.")
	cyanColor.Println(".reset clears the pending buffer, .exit quits.")
	blueColor.Println(replLine)
}
