package main

import (
	"os"

	"github.com/wolph/mt940/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
