// Command propgrid evaluates thermodynamic property grids with a
// REFPROP-compatible engine library.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/propgrid/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	if !cli.IsReported(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
