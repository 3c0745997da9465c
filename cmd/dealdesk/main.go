package main

import (
	"os"

	"github.com/dealdesk-dev/dealdesk/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
