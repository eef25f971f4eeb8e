// Command formadapt inspects and exercises form adapters built from JSON
// Schema documents.
package main

import (
	"os"

	formadapt "github.com/reoring/formadapt"
)

// Exit codes: rejected input is distinguished from usage and I/O failures.
const (
	exitOK       = 0
	exitFailure  = 1
	exitRejected = 2
)

func main() {
	os.Exit(exitCode(newRootCmd().Execute()))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if _, ok := formadapt.AsIssues(err); ok {
		return exitRejected
	}
	return exitFailure
}
