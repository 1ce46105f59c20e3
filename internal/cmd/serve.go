package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"atelier/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server which provides:
- storefront API under /api (auth, catalog, cart, addresses, orders)
- admin API under /admin (orders, custom orders, catalog, inventory)
- admin live order feed at /admin/ws`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, gdb, err := bootstrap()
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	a, err := buildApp(cfg, log, gdb)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.WithError(err).Warn("failed to close event publisher")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.hub.Run(ctx)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(ctx, a.echo, addr, log); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
