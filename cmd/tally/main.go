package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/tally-dev/tally/internal/commands"
)

func main() {
	_ = godotenv.Load() // .env is optional

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
