package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"rxcampus/internal/platform/config"
	"rxcampus/internal/platform/logger"
)

var (
	envFile string

	cfg config.Config
	log *slog.Logger
)

// rootCmd groups the content migration subcommands. Every subcommand reads
// configuration from the environment the same way the server does.
var rootCmd = &cobra.Command{
	Use:   "rxcampus-migrate",
	Short: "Move the Airtable content base into Supabase",
	Long: `rxcampus-migrate copies the Airtable content base into Supabase:
attachments into a Storage bucket, rows into the relational mirror the
API serves from. Runs are idempotent and resumable.

Typical sequence:

  rxcampus-migrate schema
  rxcampus-migrate attachments --plan plan.yaml
  rxcampus-migrate verify --plan plan.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", envFile, err)
			}
		} else {
			_ = godotenv.Load()
		}
		cfg = config.FromEnv()
		log = logger.New()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file before reading config")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(attachmentsCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
