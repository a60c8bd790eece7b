package main

import (
	"os"

	"tempo-cli/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for TEMPO_DIR / TEMPO_CONFIG_DIR overrides; a missing
	// file is fine.
	_ = godotenv.Load()

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
