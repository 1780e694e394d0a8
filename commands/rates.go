package commands

import (
	"github.com/penwyp/go-agent-meter/internal/application/meter"
	"github.com/penwyp/go-agent-meter/internal/presentation/formatter"
	"github.com/penwyp/go-agent-meter/internal/util"
	"github.com/spf13/cobra"
)

var ratesOutput string

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "List the effective rate table",
	Long: `Lists the rate table that replay prices records against, after the
pricing source and any rates file have been applied. Prices are per million
units.`,
	Args: cobra.NoArgs,
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().StringVarP(&ratesOutput, "output", "o", "table",
		"Output format (table, json, csv)")
}

func runRates(cmd *cobra.Command, args []string) error {
	config, err := meterConfig()
	if err != nil {
		return err
	}

	table, err := meter.LoadRates(cmd.Context(), config)
	if err != nil {
		return err
	}
	util.LogDebugf("Loaded %d rates from %s", table.Len(), table.Source())

	keys := table.Keys()
	entries := make([]formatter.RateEntry, 0, len(keys))
	for _, key := range keys {
		rate, _ := table.Entry(key)
		entries = append(entries, formatter.NewRateEntry(key, rate))
	}

	return formatter.WriteRates(cmd.OutOrStdout(), ratesOutput, entries)
}
