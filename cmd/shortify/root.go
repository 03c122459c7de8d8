package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shortify/internal/config"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		opts       *config.Options
	)

	root := &cobra.Command{
		Use:   "shortify",
		Short: "Shorten URLs through TinyURL with optional AI-suggested aliases",
		Long: `shortify creates short links through a TinyURL-style API and keeps a
local history of them. Aliases can be typed in or suggested by Gemini; a
suggested alias that turns out to be taken is replaced by a random one.

Run "shortify serve" for the web interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := loaded.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}
			*opts = *loaded
			return nil
		},
	}

	opts = config.Default()
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML or JSON config file (default $CONFIG)")
	opts.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(opts),
		newCreateCmd(opts),
		newSuggestCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newOpenCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", valueOrNA(buildVersion))
			fmt.Fprintf(out, "Build date: %s\n", valueOrNA(buildDate))
			fmt.Fprintf(out, "Build commit: %s\n", valueOrNA(buildCommit))
			return nil
		},
	}
}
