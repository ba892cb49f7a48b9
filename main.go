package main

import (
	"os"

	"github.com/pterodactyl/fsx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
