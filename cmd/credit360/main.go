package main

import (
	"os"

	"github.com/credit360-dev/credit360/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
