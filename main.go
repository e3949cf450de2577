package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/panyam/bandplot/cmd/bandplot/commands"
	"github.com/panyam/bandplot/logging"
)

func main() {
	envfile := ".env"
	if os.Getenv("BANDPLOT_ENV") == "dev" {
		envfile = ".env.dev"
		logging.Setup(os.Stderr, slog.LevelDebug, true)
	}
	// The env file is optional; variables already set win.
	if err := godotenv.Load(envfile); err != nil && !os.IsNotExist(err) {
		slog.Warn("loading env file", "file", envfile, "error", err)
	}
	commands.Execute()
}
