package main

import (
	"errors"
	"fmt"

	"github.com/bahayahay/realty/internal/listing"
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/bahayahay/realty/pkg/output"
	"github.com/bahayahay/realty/pkg/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errInvalidPrice = errors.New("price must be a positive number")

type estimateOptions struct {
	price              string
	propertyOption     string
	downPaymentPercent int
	format             string
	mode               string
}

func newEstimateCmd(opts *rootOptions) *cobra.Command {
	eo := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute a financing estimate for a contract price",
		Example: "  realty estimate --price 2,000,000 --option nur_house_lot --dp 20\n" +
			"  realty estimate --price 1200000 --option nur_lot_only --format csv --mode summary",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := conf.Rates.Validate(); err != nil {
				return fmt.Errorf("invalid rates: %w", err)
			}

			price, ok := estimate.ParsePrice(eo.price)
			if !ok {
				return errInvalidPrice
			}
			option, ok := estimate.ParsePropertyOption(eo.propertyOption)
			if !ok {
				return fmt.Errorf("unknown property option %q", eo.propertyOption)
			}
			downPayment := eo.downPaymentPercent
			if downPayment == 0 {
				downPayment = conf.Rates.DownPaymentPercentOptions[0]
			}
			if err := validation.ValidateDownPayment(downPayment, conf.Rates); err != nil {
				return err
			}

			outputFormat := conf.Output.Format
			if eo.format != "" {
				outputFormat = eo.format
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			modeValue := conf.Output.Mode
			if eo.mode != "" {
				modeValue = eo.mode
			}
			mode, err := estimate.ParseMode(modeValue)
			if err != nil {
				return err
			}

			est := estimate.Compute(estimate.Request{
				Price:              price,
				PropertyOption:     option,
				DownPaymentPercent: downPayment,
			}, conf.Rates)
			return output.Write(cmd.OutOrStdout(), outputFormat, est, mode)
		},
	}

	cmd.Flags().StringVar(&eo.price, "price", "", "total contract price, e.g. 2,000,000")
	cmd.Flags().StringVar(&eo.propertyOption, "option", string(estimate.DefaultOption), "property option")
	cmd.Flags().IntVar(&eo.downPaymentPercent, "dp", 0, "down payment percent (defaults to the first configured choice)")
	cmd.Flags().StringVar(&eo.format, "format", "", "output format override: pretty, csv, json")
	cmd.Flags().StringVar(&eo.mode, "mode", "", "output mode override: summary, detailed")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print any warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, warning := range conf.ValidateConfiguration() {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			if err := conf.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			fmt.Fprintln(out, "configuration OK")
			return nil
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the listing schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if conf.Database.Host == "" {
				return errors.New("database.host is not configured")
			}

			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			dsn := conf.Database.DSN()
			if direction == "down" {
				err = listing.RunMigrationsDown(dsn, conf.Database.Migrations)
			} else {
				err = listing.RunMigrations(dsn, conf.Database.Migrations)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", direction)
			return nil
		},
	}
}

func newRatesCmd(opts *rootOptions) *cobra.Command {
	rates := &cobra.Command{
		Use:   "rates",
		Short: "Inspect the rate tables",
	}
	rates.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the effective rate configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(map[string]estimate.RateConfig{"rates": conf.Rates}); err != nil {
				return fmt.Errorf("failed to encode rates: %w", err)
			}
			return enc.Close()
		},
	})
	return rates
}
