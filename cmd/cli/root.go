package main

import (
	"github.com/spf13/cobra"

	"prompt-studio/internal/app"
	"prompt-studio/internal/config"
)

// cliOwner scopes results created from the command line.
const cliOwner = "cli"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prompt-studio",
		Short:         "Expand a subject into a structured generation prompt.",
		SilenceUsage: true,
	}

	root.AddCommand(
		newFrameworksCmd(),
		newGenerateCmd(),
		newParseCmd(),
		newImageCmd(),
	)
	return root
}

// loadApp reads the environment only for commands that call the model, so
// offline commands work without an API key.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return app.New(cfg, logger), nil
}
