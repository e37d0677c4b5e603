// jewelry-pricer reprices weight based Shopify variants from per-collection rates.
//
// Usage:
//
//	jewelry-pricer preview --collection ID --rate ID=RATE [--markup ID=PCT]
//	jewelry-pricer apply   --collection ID --rate ID=RATE [--markup ID=PCT] [--dry-run]
//	jewelry-pricer serve
//	jewelry-pricer rates list|set
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "jewelry-pricer",
		Usage:   "Recalculate jewelry variant prices from weight, rate and markup",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "Optional dotenv file loaded before reading the environment",
				EnvVars: []string{"JEWELRY_PRICER_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			previewCommand(),
			applyCommand(),
			serveCommand(),
			ratesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
