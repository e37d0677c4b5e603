package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"jewelry-pricer/internal/http/handler"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the pricing HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides HTTP_ADDR",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.HTTP.Addr
	if c.String("addr") != "" {
		addr = c.String("addr")
	}

	e := handler.NewServer(handler.NewPricingHandler(a.sync, a.applier, a.rates), a.recorder, a.zap)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.zap.Info("Starting server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.zap.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
