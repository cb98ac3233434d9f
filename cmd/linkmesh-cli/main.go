// Package main provides the entry point for linkmesh-cli.
//
// linkmesh-cli is the command-line management tool for LinkMesh.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/linkmesh-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
