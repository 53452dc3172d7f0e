// Command layoutdump lays out HTML fixtures and prints the geometry
// of their box trees, as an indented text tree or as JSON.
//
// Usage:
//
//	layoutdump [flags] file.html...
//
// Settings are read from the flags, then from the LAYOUTDUMP_* environment
// variables, then from a layoutdump.yaml file in the working directory
// (or the file given with --config).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
