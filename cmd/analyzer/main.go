package main

import (
	"os"

	"github.com/ksfraser/stock-analysis/cmd/analyzer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
