package main

import (
	"fmt"
	"os"

	"github.com/sqlynx/sqlynx/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the sqlynx command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
