// AngelaMos | 2026
// main.go

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	ConfigFile string
}

var rootCmd = &cobra.Command{
	Use:   "eatme",
	Short: "EatMe calorie tracking API",
	Long: `EatMe serves a JSON REST API for tracking meals and daily calorie
targets, with per-user records and admin/editor roles.

Running without a subcommand starts the HTTP server.`,
	Example: `eatme --config config.yaml
  eatme migrate up
  eatme keys generate --private keys/private.pem --public keys/public.pem`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&rootFlags.ConfigFile,
		"config", "c", "",
		"path to a YAML config file; environment variables override it",
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
