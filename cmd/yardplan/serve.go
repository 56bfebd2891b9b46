package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/internal/pricing"
	"github.com/philipparndt/yardplan/internal/server"
)

var (
	serveListen    string
	serveAccessLog bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [scene.db]",
	Short: "Serve a scene over HTTP",
	Long:  "Expose the items, quote and report of a scene as a read-only JSON API.",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (defaults to the configured one)")
	serveCmd.Flags().BoolVar(&serveAccessLog, "access-log", false, "log every request")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	store, err := openScene(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(store, server.Options{
		Pricing:   pricing.New(cfg.Pricing.AreaRate, cfg.Pricing.LengthRate),
		Currency:  cfg.Pricing.Currency,
		Catalog:   cat,
		AccessLog: serveAccessLog,
	}, log)

	addr := serveListen
	if addr == "" {
		addr = cfg.Listen
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("serving scene", "scene", args[0], "listen", addr)
	return srv.Listen(addr)
}
