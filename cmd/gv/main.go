package main

import (
	"os"

	"github.com/Dicklesworthstone/gallery_viewer/cmd/gv/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
