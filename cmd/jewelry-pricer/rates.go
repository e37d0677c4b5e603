package main

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"jewelry-pricer/internal/domain/model"
)

var errNoRateStore = errors.New("rate store is not configured: set MYSQL_HOST, MYSQL_USER and MYSQL_DATABASE")

func ratesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rates",
		Usage: "Manage stored per-collection rates",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Print stored rates",
				Action: runRatesList,
			},
			{
				Name:  "set",
				Usage: "Store the rate and markup for a collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Aliases:  []string{"c"},
						Usage:    "Collection id",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "rate",
						Usage:    "Rate per gram",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "markup",
						Value: "0",
						Usage: "Markup percent, may be negative",
					},
				},
				Action: runRatesSet,
			},
		},
	}
}

func runRatesList(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.rates == nil {
		return errNoRateStore
	}

	configs, err := a.rates.LoadPricingConfigs(c.Context)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(configs))
	for id := range configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tRATE\tMARKUP %\t")
	for _, id := range ids {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", id, configs[id].RatePerUnit, configs[id].MarkupPercent)
	}
	return tw.Flush()
}

func runRatesSet(c *cli.Context) error {
	rate, err := decimal.NewFromString(c.String("rate"))
	if err != nil {
		return fmt.Errorf("--rate: %w", err)
	}
	markup, err := decimal.NewFromString(c.String("markup"))
	if err != nil {
		return fmt.Errorf("--markup: %w", err)
	}

	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.rates == nil {
		return errNoRateStore
	}

	cfg := model.PricingConfig{RatePerUnit: rate, MarkupPercent: markup}
	if err := a.rates.SavePricingConfig(c.Context, c.String("collection"), cfg); err != nil {
		return err
	}
	a.logger.Log(fmt.Sprintf("Stored rate %s markup %s%% for %s", rate, markup, c.String("collection")))
	return nil
}
