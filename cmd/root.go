package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/josephlewis42/pipesh/core"
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string

	// exitStatus is returned to the OS once the root command finishes.
	exitStatus int
)

func configDir(env vos.VEnv) string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultDir(env)
}

func loadConfig(env vos.VEnv) (*config.Configuration, error) {
	configuration, err := config.Load(configDir(env))

	if errors.Is(err, fs.ErrPermission) {
		return nil, errors.New("couldn't read config: permission denied")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pipesh",
	Short: "Interactive shell with pipelines and redirection",
	Long: `An interactive command interpreter. Lines may chain builtins and programs
with " | " and send stdout or stderr to files with >, >>, 2> and 2>>.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		hostOS := vos.NewHostOS()
		cfg, err := loadConfig(hostOS)
		if err != nil {
			return err
		}

		log, closeLog, err := logger.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		vio := vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		shell := core.NewShell(hostOS, vio, cfg, logger.NewSession(log))

		if cmd.Flags().Changed("command") {
			// Errors are already reported on stderr.
			_ = shell.RunLine(commandLine)
			exitStatus = shell.LastStatus
			return shell.Close()
		}

		// A broken history file doesn't stop the session.
		_ = shell.LoadHistory()
		defer shell.Close()

		return shell.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitStatus)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory (default $HOME/.config/pipesh)")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit with its status")
}
