// Package main provides the entry point for the gofzy CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	gofzycmd "github.com/Aman-CERP/gofzy/cmd/gofzy/cmd"
	gofzyerrors "github.com/Aman-CERP/gofzy/internal/errors"
)

// exitCoder is implemented by errors that carry a specific process exit
// code (e.g. 1 on no match, 130 on abort, 2 on a fatal/system-check
// error), the finder's exit code contract for select-1/exit-0/abort.
type exitCoder interface {
	ExitCode() int
}

func main() {
	err := gofzycmd.Execute()
	if err == nil {
		return
	}

	var ec exitCoder
	if errors.As(err, &ec) {
		if msg := err.Error(); msg != "" && msg != "no match" && msg != "aborted" {
			fmt.Fprintln(os.Stderr, "gofzy:", msg)
		}
		os.Exit(ec.ExitCode())
	}

	var fe *gofzyerrors.FinderError
	if errors.As(err, &fe) {
		fmt.Fprint(os.Stderr, gofzyerrors.FormatForCLI(fe))
		exitCode := 2
		if gofzyerrors.IsFatal(fe) {
			exitCode = 3
		}
		os.Exit(exitCode)
	}

	fmt.Fprintln(os.Stderr, "gofzy:", err)
	os.Exit(2)
}
