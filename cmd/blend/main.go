package main

import (
	"os"

	"github.com/YuminosukeSato/blend/cmd/blend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
