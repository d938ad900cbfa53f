package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/uiimport/pkg/config"
)

func initCmd() *cobra.Command {
	var (
		presets []string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create " + config.DefaultPath,
		Long: `Write a project config listing the given presets (all built-in presets
by default). Edit the file to tune library rules, include and exclude
patterns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(config.DefaultPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.DefaultPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg, err := config.Default()
			if err != nil {
				return err
			}
			if len(presets) > 0 {
				cfg.Libraries = nil
				for _, name := range presets {
					rule := config.Rule{Preset: name}
					if _, err := rule.Expand(); err != nil {
						return err
					}
					cfg.Libraries = append(cfg.Libraries, rule)
				}
			}
			cfg.Version = "1"

			if err := cfg.Write(config.DefaultPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			addColor.Fprintf(cmd.OutOrStdout(), "✓ wrote %s (%d libraries)\n", config.DefaultPath, len(cfg.Libraries))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&presets, "preset", nil, "presets to include (repeatable); default all")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}
