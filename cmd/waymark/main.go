package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCommand().Execute(); err != nil {
		// Interrupt-driven cancellation is a normal exit, not a failure worth
		// printing.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "waymark: %v\n", err)
		}
		return 1
	}
	return 0
}
