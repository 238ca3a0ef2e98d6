// Package cli implements timefitctl, the operator command line for the
// Time-Fit backend.
package cli

import (
	"os"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command for timefitctl.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "timefitctl",
		Short:         "Time-Fit operator tool",
		Long:          "timefitctl runs migrations, seeds administrators and inspects the job queues.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
			if v, _ := cmd.Flags().GetBool("verbose"); !v {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedAdminCmd())
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newDLQCmd())

	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	return root
}

// loadConfig is shared by every subcommand that touches Postgres or Redis.
func loadConfig() (*config.Config, error) {
	return config.Load()
}
