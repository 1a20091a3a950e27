package main

import (
	"os"

	"github.com/taxprep-dev/taxprep/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
