package cmd

import (
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// initCmd writes a default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the config directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
			With().
			Timestamp().
			Logger()

		_, err := config.Initialize(configDir(vos.HostEnv{}), logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
