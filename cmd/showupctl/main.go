// Package main implements showupctl, offline tooling for the ShowUp
// appointment ledger and no-show model.
package main

import (
	"context"
	"encoding/json"
	"os"

	"showup-server/internal/app"

	"github.com/spf13/cobra"
)

var (
	// providerID scopes imports and predictions
	providerID uint
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "showupctl",
	Short: "Offline tooling for the ShowUp appointment ledger",
	Long: `showupctl works against the same database and model file as the
ShowUp server, configured through the same environment variables (.env is
read when present).`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().UintVar(&providerID, "provider", 0, "provider id (defaults to DEFAULT_PROVIDER_ID)")
}

// openApp loads configuration and opens the database for one command.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, logger, err := app.LoadEnv()
	if err != nil {
		return nil, err
	}
	if providerID == 0 {
		providerID = cfg.DefaultProviderID
	}
	return app.New(ctx, cfg, logger)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
