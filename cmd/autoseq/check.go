package main

import (
	"github.com/spf13/cobra"

	"github.com/opcontrol/autoseq/mission"
)

func newCheckCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a mission config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mission.LoadConfig(configPath)
			if err != nil {
				return err
			}
			logger.Info().
				Str("alliance", string(cfg.Alliance)).
				Float64("start_delay", cfg.StartDelay).
				Float64("budget", cfg.Budget).
				Bool("backout_realign", cfg.BackoutRealign).
				Msg("config ok")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mission config file (YAML)")
	return cmd
}
