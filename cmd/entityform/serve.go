package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-entityform/internal/server"
	"github.com/goliatone/go-entityform/pkg/gateway"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured store over REST",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logger.Error("serve: close store:", err)
				}
			}()
			if err := seedReferenceData(ctx, reg, store); err != nil {
				return err
			}

			promReg := prometheus.NewRegistry()
			promReg.MustRegister(collectors.NewGoCollector())
			metrics, err := gateway.NewMetrics(promReg)
			if err != nil {
				return fmt.Errorf("serve: metrics: %w", err)
			}

			handler, err := server.NewHandler(server.Config{
				Store:    metrics.Instrument(store),
				Registry: reg,
				Gatherer: promReg,
			})
			if err != nil {
				return err
			}
			logger.Info("serve: collections", reg.Collections(), "database", cfg.Database.Type)
			return server.Run(ctx, cfg.Server.Addr, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	return cmd
}
