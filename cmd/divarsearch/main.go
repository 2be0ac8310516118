// Package main is the entry point for the divarsearch CLI.
package main

import (
	"os"

	"github.com/jmylchreest/divarsearch/cmd/divarsearch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
