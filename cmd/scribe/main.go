package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	// An interrupted run was asked for; do not repeat it as an error.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "scribe:", err)
	}
	os.Exit(1)
}
