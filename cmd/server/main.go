package main

import (
	"encoding/json"
	"fmt"
	"os"

	"carrental/internal/config"
	"carrental/internal/pricing"
	"carrental/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "carrental"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Car rental reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd(), quoteCmd(), hashPasswordCmd(), versionCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}
}

func quoteCmd() *cobra.Command {
	var (
		rate                                   string
		startDate, startTime, endDate, endTime string
		mode, timezone                         string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a rental period for a day rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode == "" || timezone == "" {
				defaults := config.Load()
				if mode == "" {
					mode = defaults.DurationMode
				}
				if timezone == "" {
					timezone = defaults.Timezone
				}
			}

			dayRate, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid --rate %q: %w", rate, err)
			}
			m, err := pricing.ParseMode(mode)
			if err != nil {
				return err
			}
			cfg := config.Config{Timezone: timezone}

			q, err := pricing.NewCalculator(m, cfg.Location()).Quote(pricing.Range{
				StartDate: startDate,
				StartTime: startTime,
				EndDate:   endDate,
				EndTime:   endTime,
			}, dayRate)
			if err != nil {
				return fmt.Errorf("price unavailable: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(q)
		},
	}

	cmd.Flags().StringVar(&rate, "rate", "", "Day rate")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Pick-up date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startTime, "start-time", "", "Pick-up time (HH:MM)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Return date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endTime, "end-time", "", "Return time (HH:MM)")
	cmd.Flags().StringVar(&mode, "mode", "", "Duration mode (absolute, strict); defaults to DURATION_MODE")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Time zone of the dates; defaults to TIMEZONE")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of an admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}
