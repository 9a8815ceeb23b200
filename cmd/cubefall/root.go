package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/plus3/cubefall/tetra"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "cubefall",
		Short:        "Cubefall is a 3D falling-block puzzle",
		Long:         `Cubefall drops four-cube pieces into a width x height x depth well. Fill a whole horizontal layer to clear it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(os.Stderr, level)

			cfg, err := tetra.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if configPath != "" {
				logger.Debug("loaded config", "path", configPath, "grid", []int{cfg.Width, cfg.Height, cfg.Depth})
			}

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "rules file (.yaml, .yml or .toml)")

	root.AddCommand(newPlayCmd())
	root.AddCommand(newTUICmd())
	root.AddCommand(newSimCmd())

	return root
}
