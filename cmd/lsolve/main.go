// Command lsolve parses and solves engineering equation files.
package main

import (
	"os"

	"github.com/lsolve-labs/lsolve/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
