package cli

import (
	"fmt"
	"strconv"

	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
	"github.com/spf13/cobra"
)

func cbmCmd() *cobra.Command {
	var strict bool
	var maxDimension float64

	c := &cobra.Command{
		Use:   "cbm <dimensions>",
		Short: `Print the volume in cubic meters of "L x W x H" centimeters`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := args[0]
			if strict {
				d, err := valueobject.ParseDimensions(dims, maxDimension)
				if err != nil {
					return err
				}
				dims = d.String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatNumber(valueobject.CalculateCBM(dims)))
			return nil
		},
	}

	c.Flags().BoolVar(&strict, "strict", false, "reject malformed or oversized dimensions instead of printing 0")
	c.Flags().Float64Var(&maxDimension, "max-dimension", valueobject.DefaultMaxDimension, "largest accepted side in cm with --strict")
	return c
}

func weightCmd() *cobra.Command {
	var (
		actual  float64
		mode    string
		divisor float64
	)

	c := &cobra.Command{
		Use:   "weight <dimensions>",
		Short: "Print dimensional and chargeable weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := valueobject.ParseFreightMode(mode)
			if err != nil {
				return err
			}

			cw := valueobject.CalculateChargeableWeight(actual, args[0], divisor)
			basis := "actual"
			if cw.IsDimensional {
				basis = "dimensional"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode\t%s\n", m)
			fmt.Fprintf(out, "actual\t%s\n", formatNumber(cw.Actual))
			fmt.Fprintf(out, "dimensional\t%s\n", formatNumber(cw.Dimensional))
			fmt.Fprintf(out, "chargeable\t%s (%s)\n", formatNumber(cw.Chargeable), basis)
			return nil
		},
	}

	c.Flags().Float64Var(&actual, "actual", 0, "actual weight in kg")
	c.Flags().StringVar(&mode, "mode", string(valueobject.FreightModeAir), "freight mode (air, sea, road, express)")
	c.Flags().Float64Var(&divisor, "divisor", valueobject.DefaultDivisor, "volumetric divisor in cm³ per kg")
	return c
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
