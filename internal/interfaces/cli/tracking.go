package cli

import (
	"errors"
	"fmt"

	"github.com/hapkiduki/freight-go/internal/application/service"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
	"github.com/hapkiduki/freight-go/internal/infrastructure/persistance/sqlite"
	"github.com/hapkiduki/freight-go/pkg/logger"
	"github.com/spf13/cobra"
)

// errInvalid makes the process exit non-zero after printing the verdict.
var errInvalid = errors.New("invalid tracking number")

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <tracking-number>...",
		Short: "Check prefix, length and check digit of tracking numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed bool
			for _, tn := range args {
				verdict := "valid"
				if !valueobject.ValidateTrackingNumber(tn) {
					verdict = "invalid"
					failed = true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tn, verdict)
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}
}

func checkDigitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkdigit <digits>",
		Short: "Print the Luhn check digit; non-digit characters are ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), valueobject.LuhnCheckDigit(args[0]))
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var (
		dbPath      string
		count       int
		maxAttempts int
	)

	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate tracking numbers unused in a shipment database",
		Long: "Generate draws tracking numbers and checks each against the shipment database.\n" +
			"Numbers are not reserved: a shipment must still be created to claim one.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}

			repo, err := sqlite.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			gen := service.NewTrackingNumberGenerator(repo,
				service.WithMaxAttempts(maxAttempts),
				service.WithGeneratorLogger(logger.AsPort(logger.Global())),
			)

			seen := make(map[valueobject.TrackingNumber]bool, count)
			for len(seen) < count {
				tn, err := gen.Generate(cmd.Context())
				if err != nil {
					return err
				}
				if seen[tn] {
					continue
				}
				seen[tn] = true
				fmt.Fprintln(cmd.OutOrStdout(), tn)
			}
			return nil
		},
	}

	c.Flags().StringVar(&dbPath, "db", "freight.db", "SQLite shipment database")
	c.Flags().IntVarP(&count, "count", "n", 1, "how many tracking numbers to print")
	c.Flags().IntVar(&maxAttempts, "max-attempts", service.DefaultMaxAttempts, "collision checks per tracking number")
	return c
}
