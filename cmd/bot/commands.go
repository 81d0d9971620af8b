package main

import (
	"fmt"
	"os"
	"time"

	"availability-bot/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// openServices loads the configuration and wires the services without any
// notification delivery.
func openServices() (*services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ConfigureLogger(logrus.StandardLogger())

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := buildServices(db, nil, cfg)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return svc, closeFn, nil
}

func holidaysCmd() *cobra.Command {
	var (
		year    int
		country string
		region  string
	)

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print the holidays of a year for a country or region group",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openServices()
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := svc.availability.Holidays(cmd.Context(), year, country, region)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No holidays found. Pass --country or --region.")
				return nil
			}
			for _, h := range list {
				tag := h.Tag
				if tag == "" {
					tag = "company"
				}
				fmt.Fprintf(out, "%s  %-3s  %-8s %s\n", h.Date.Format("2006-01-02"), h.Date.Format("Mon"), tag, h.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().UTC().Year(), "Calendar year")
	cmd.Flags().StringVarP(&country, "country", "c", "", "ISO country code, e.g. US")
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region group: NAM, CAM, SAM, EU, APAC or OCE")
	return cmd
}

func importDaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-days FILE",
		Short: "Replace the company days off with the content of a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return err
			}

			svc, closeFn, err := openServices()
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := svc.daysOff.LoadFromFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %d non-working days from %s\n", count, args[0])
			return nil
		},
	}
}
