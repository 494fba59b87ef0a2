package cli

import (
	"fmt"
	"log/slog"

	"github.com/fenix011/student-management-API-c6e/internal/config"
	"github.com/fenix011/student-management-API-c6e/internal/db"
	"github.com/fenix011/student-management-API-c6e/internal/events"
	"github.com/fenix011/student-management-API-c6e/internal/metrics"
	"github.com/fenix011/student-management-API-c6e/internal/student"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

const serviceName = "students-cli"

// NewRootCommand builds the students command: the interactive menu at the
// root and an init subcommand that creates and seeds the database.
func NewRootCommand(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "students",
		Short:         "Interactive student record manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, cfg, logger)
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database file")

	root.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the students table and insert sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, cfg)
		},
	})

	return root
}

func runMenu(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	ctx := cmd.Context()

	database, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close(database)

	publisher := events.New(cfg.Events, logger)
	defer publisher.Close()

	menu := NewMenu(newService(database, publisher, logger), cmd.InOrStdin(), cmd.OutOrStdout())
	if err := menu.CheckDatabase(ctx); err != nil {
		return err
	}
	return menu.Run(ctx)
}

func runInit(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	database, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close(database)

	if err := db.RunMigrations(ctx, database); err != nil {
		return err
	}
	inserted, err := db.Seed(ctx, database)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database initialized with sample data (%d new students)\n", inserted)
	return nil
}

func newService(database *bun.DB, publisher events.Publisher, logger *slog.Logger) student.Service {
	m, err := metrics.New(serviceName)
	if err != nil {
		logger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}
	return student.NewService(student.NewRepository(database, m), publisher, m, logger)
}
