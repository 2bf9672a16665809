// Package main is the entry point for the solarquote CLI.
package main

import (
	"os"

	"solarquote/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
