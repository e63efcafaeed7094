// Package main is the entry point for the ipxplorer reference server.
package main

import (
	"fmt"
	"os"

	"ipxplorer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
