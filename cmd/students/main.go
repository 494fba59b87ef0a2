package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fenix011/student-management-API-c6e/internal/cli"
	"github.com/fenix011/student-management-API-c6e/internal/config"
	"github.com/fenix011/student-management-API-c6e/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	// Logs go to stderr so they never interleave with the menu.
	slogger := logger.NewWithWriter(os.Stderr)
	slog.SetDefault(slogger)

	if err := cli.NewRootCommand(cfg, slogger).Execute(); err != nil {
		if !errors.Is(err, cli.ErrDatabaseNotFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
