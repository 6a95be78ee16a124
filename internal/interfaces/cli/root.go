// Package cli implements the trackctl commands on cobra.
package cli

import (
	"github.com/hapkiduki/freight-go/pkg/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the trackctl command tree.
func NewRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "trackctl",
		Short:        "Tracking number and shipment measurement tool",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level := "warn"
			if debug {
				level = "debug"
			}
			log, err := logger.New(logger.Config{Level: level, Format: "console"})
			if err != nil {
				return err
			}
			logger.SetGlobal(log)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging to stdout")

	cmd.AddCommand(
		validateCmd(),
		checkDigitCmd(),
		cbmCmd(),
		weightCmd(),
		generateCmd(),
	)
	return cmd
}
