package main

import (
	"os"

	"github.com/gkobilansky/conversion-goat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
