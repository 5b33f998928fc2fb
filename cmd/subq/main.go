// Package main provides the subq binary entry point.
package main

import (
	"fmt"
	"os"

	"github.com/solrtools/subq/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
