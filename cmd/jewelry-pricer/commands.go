package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"jewelry-pricer/internal/app/usecases"
	"jewelry-pricer/internal/domain/pricing"
)

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:   "preview",
		Usage:  "Show recalculated prices without writing anything",
		Flags:  runFlags(),
		Action: runPreview,
	}
}

func applyCommand() *cli.Command {
	flags := append(runFlags(), &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Detect changes but do not write prices",
	})
	return &cli.Command{
		Name:   "apply",
		Usage:  "Write every eligible price change to Shopify",
		Flags:  flags,
		Action: runApply,
	}
}

func runPreview(c *cli.Context) error {
	opts, err := runOptions(c)
	if err != nil {
		return err
	}
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	preview, err := a.sync.Preview(ctx, opts)
	if err != nil {
		return err
	}
	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, preview)
	}
	printPreview(c.App.Writer, preview)
	return nil
}

func runApply(c *cli.Context) error {
	opts, err := runOptions(c)
	if err != nil {
		return err
	}
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := a.sync.Run(ctx, opts)
	a.pushMetrics(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		if err := writeJSON(c.App.Writer, report); err != nil {
			return err
		}
	} else {
		printReport(c.App.Writer, report)
	}

	if report.Applied && !report.Result.OK {
		return cli.Exit("failed to update some prices", 1)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPreview(w io.Writer, preview usecases.PreviewResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOLLECTION\tPRODUCT\tVARIANT\tWEIGHT (G)\tRATE\tMARKUP %\tCURRENT\tNEW\t")
	for _, row := range preview.Rows {
		product := ""
		if row.IsFirstInGroup {
			product = row.ProductTitle
		}
		weight := "-"
		if row.HasWeight {
			weight = row.WeightGrams.String()
		}
		marker := ""
		if pricing.IsEligible(row) {
			marker = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s%s\t\n",
			row.Serial,
			row.CollectionTitle,
			product,
			row.VariantTitle,
			weight,
			row.RatePerUnit.String(),
			row.MarkupPercent.String(),
			pricing.FormatMoney(row.BasePrice),
			pricing.FormatMoney(row.NewPrice),
			marker,
		)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nPage %d of %d, %d rows in %d collections, %d variants\n",
		preview.Page, preview.PageCount, preview.TotalRows,
		preview.Summary.TotalCollections, preview.Summary.TotalProducts)
	fmt.Fprintf(w, "Price changes detected: %d\n", preview.Changed)
	if len(preview.InvalidCollections) > 0 {
		fmt.Fprintf(w, "Collections without a positive rate: %s\n", strings.Join(preview.InvalidCollections, ", "))
	}
}

func printReport(w io.Writer, report usecases.RunReport) {
	fmt.Fprintf(w, "Run %s: %d price changes detected\n", report.RunID, report.Changed)
	switch {
	case report.Changed == 0:
		fmt.Fprintln(w, "No price changes detected")
	case !report.Applied:
		fmt.Fprintln(w, "Dry run, nothing written")
	default:
		fmt.Fprintf(w, "Updated %d variants\n", report.Result.Updated)
		for _, e := range report.Result.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.ProductID, e.Messages)
		}
	}
}
