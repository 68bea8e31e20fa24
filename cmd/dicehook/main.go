// Package main is the entry point for the dicehook CLI.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "dicehook: %v\n", err)
		os.Exit(1)
	}
}
