// Package main is the entry point for the backlink automation service.
package main

import (
	"fmt"
	"os"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/bootstrap"
)

func main() {
	if err := bootstrap.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
