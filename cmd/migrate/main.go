// Command migrate manages the recommendation audit schema:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate status
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dota-coach-backend/internal/shared/config"
	"dota-coach-backend/internal/shared/storage/db"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply, revert or inspect the recommendation audit schema",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	for _, name := range db.Commands {
		rootCmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: "goose " + name,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context(), cmd.Name())
			},
		})
	}
}

func migrate(ctx context.Context, command string) error {
	url := databaseURL
	if url == "" {
		url = config.Load().DatabaseURL
	}
	sqlDB, err := db.Connect(ctx, url, db.MigrateOptions().WithEnv())
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return db.Migrate(ctx, sqlDB, command)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}
