package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"jewelry-pricer/internal/app/usecases"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "collection",
			Aliases:  []string{"c"},
			Usage:    "Collection id to price, repeatable",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "rate",
			Usage: "Rate per gram for a collection as ID=RATE, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "markup",
			Usage: "Markup percent for a collection as ID=PCT, repeatable",
		},
		&cli.StringFlag{
			Name:  "priority",
			Usage: "Collection id listed first in the output",
		},
		&cli.IntFlag{
			Name:  "page",
			Value: 1,
			Usage: "Page of rows to print",
		},
		&cli.IntFlag{
			Name:  "per-page",
			Value: 50,
			Usage: "Rows per page",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "table",
			Usage:   "Output format (table, json)",
		},
	}
}

func runOptions(c *cli.Context) (usecases.RunOptions, error) {
	overrides, err := parsePricingFlags(c.StringSlice("rate"), c.StringSlice("markup"))
	if err != nil {
		return usecases.RunOptions{}, err
	}
	return usecases.RunOptions{
		CollectionIDs:        c.StringSlice("collection"),
		Overrides:            overrides,
		PriorityCollectionID: c.String("priority"),
		Page:                 c.Int("page"),
		PerPage:              c.Int("per-page"),
		DryRun:               c.Bool("dry-run"),
	}, nil
}

// parsePricingFlags turns ID=VALUE pairs into overrides. A collection given only a rate
// keeps its stored markup and the other way round.
func parsePricingFlags(rates, markups []string) (map[string]usecases.PricingOverride, error) {
	overrides := make(map[string]usecases.PricingOverride, len(rates)+len(markups))
	for _, raw := range rates {
		id, value, err := splitAssignment("rate", raw)
		if err != nil {
			return nil, err
		}
		override := overrides[id]
		override.RatePerUnit = decimal.NewNullDecimal(value)
		overrides[id] = override
	}
	for _, raw := range markups {
		id, value, err := splitAssignment("markup", raw)
		if err != nil {
			return nil, err
		}
		override := overrides[id]
		override.MarkupPercent = decimal.NewNullDecimal(value)
		overrides[id] = override
	}
	return overrides, nil
}

func splitAssignment(flag, raw string) (string, decimal.Decimal, error) {
	idx := strings.LastIndex(raw, "=")
	if idx <= 0 {
		return "", decimal.Zero, fmt.Errorf("--%s %q: expected ID=VALUE", flag, raw)
	}
	id := strings.TrimSpace(raw[:idx])
	value, err := decimal.NewFromString(strings.TrimSpace(raw[idx+1:]))
	if err != nil || id == "" {
		return "", decimal.Zero, fmt.Errorf("--%s %q: expected ID=VALUE", flag, raw)
	}
	return id, value, nil
}
