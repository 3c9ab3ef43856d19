package main

// Regenerate the embedded item catalog from the dotaconstants feed:
//   go run ./cmd/catalogbuild --out internal/catalog/data

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dota-coach-backend/internal/catalog"
)

var (
	sourceURL string
	outDir    string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "catalogbuild",
	Short: "Build item_costs.json and item_slugs.json from the dotaconstants items feed",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&sourceURL, "url", catalog.SourceURL, "items.json feed URL")
	rootCmd.Flags().StringVar(&outDir, "out", "internal/catalog/data", "directory to write the JSON tables to")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "download timeout")
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	feed, err := catalog.Fetch(ctx, &http.Client{}, sourceURL)
	if err != nil {
		return err
	}
	tables, err := catalog.BuildTables(feed)
	if err != nil {
		return err
	}
	if err := tables.Write(outDir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d costs and %d slugs to %s\n", len(tables.Costs), len(tables.Slugs), outDir)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("catalogbuild: %v", err)
		os.Exit(1)
	}
}
