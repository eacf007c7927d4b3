package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baseapi/internal/platform/config"
)

func runVersion(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.Server.AppName, cfg.Server.Version)
	return err
}
