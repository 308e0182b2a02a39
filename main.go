package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"csr/colors"
	"csr/internal/compiler"
)

const usage = `csr - compiler for the V language

usage:
  csr <source-file> [<library-reference> ...]

options:
  -v        print phase banners
  -tokens   dump the token stream before parsing

Each library reference is passed to the type provider as written. The
standard library is always referenced implicitly.
`

func main() {
	verbose := flag.Bool("v", false, "print phase banners")
	dumpTokens := flag.Bool("tokens", false, "dump the token stream")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("Source file '%s' not found\n", path)
		return
	}

	result := compiler.Compile(compiler.Options{
		Path:        path,
		References:  args[1:],
		Verbose:     *verbose,
		DebugTokens: *dumpTokens,
	})
	if result.Artifact != "" && *verbose {
		colors.GREEN.Fprintf(os.Stderr, "wrote %s\n", result.Artifact)
	}
}

// isHelp recognizes the help spellings: help, ?, -?, /?, case-insensitive,
// with or without a dash or slash prefix.
func isHelp(arg string) bool {
	a := strings.ToLower(strings.TrimLeft(arg, "-/"))
	return a == "help" || a == "?"
}

func printUsage() {
	fmt.Print(usage)
}
