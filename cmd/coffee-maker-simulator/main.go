// Package main is the coffee maker simulator command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/obs"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string
	serve := serveCmd()
	root := &cobra.Command{
		Use:           config.ServiceName,
		Short:         "Four-slot coffee machine with an HTTP API",
		Version:       config.ServiceVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return obs.Configure(logLevel)
		},
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", config.Load().LogLevel, "Log level: debug, info, warn or error")
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve)
	root.AddCommand(catalogCmd())
	return root
}
