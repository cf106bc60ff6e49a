package main

import (
	"os"

	"github.com/tradearena/backend/cmd/arena/commands"
)

// main is the entry point for the Trade Arena ranking service CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
