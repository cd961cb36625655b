package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-entityform/internal/config"
	"github.com/goliatone/go-entityform/internal/customer"
	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/gateway/memory"
	"github.com/goliatone/go-entityform/pkg/gateway/sqlgw"
	"github.com/goliatone/go-entityform/pkg/i18n"
	"github.com/goliatone/go-entityform/pkg/model"
)

const fallbackLocale = "en"

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "entityform",
		Short:        "Create and edit entities through descriptor driven forms",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "entityform.toml", "Path to the TOML configuration file")
	root.AddCommand(newServeCmd(), newEditCmd(), newDescriptorsCmd(), newConfigCmd())
	return root
}

// loadConfig reads the configuration and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.SetLogLevel(logLevel(cfg.LogLevel))
	return cfg, nil
}

func logLevel(name string) logger.TLogLevel {
	switch strings.ToLower(name) {
	case "none":
		return logger.LogLevelNone
	case "error":
		return logger.LogLevelError
	case "warning":
		return logger.LogLevelWarning
	case "verbose":
		return logger.LogLevelVerbose
	case "trace":
		return logger.LogLevelTrace
	default:
		return logger.LogLevelInfo
	}
}

// loadRegistry reads descriptors from cfg.DescriptorsDir, or the embedded
// customer descriptors when unset.
func loadRegistry(cfg *config.Config) (*model.Registry, error) {
	if cfg.DescriptorsDir == "" {
		return customer.Registry()
	}
	reg, err := model.LoadFS(os.DirFS(cfg.DescriptorsDir))
	if err != nil {
		return nil, fmt.Errorf("descriptors %s: %w", cfg.DescriptorsDir, err)
	}
	return reg, nil
}

// openStore builds the gateway store selected by cfg.Database. The returned
// close function is never nil.
func openStore(ctx context.Context, cfg *config.Config) (gateway.Store, func() error, error) {
	switch cfg.Database.Type {
	case config.DatabaseSQLite, config.DatabasePostgres:
		dialect, err := sqlgw.DialectFor(cfg.Database.Type)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlgw.Open(ctx, dialect, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), func() error { return nil }, nil
	}
}

// seedReferenceData loads the countries used by the customer lookup when the
// registry serves them.
func seedReferenceData(ctx context.Context, reg *model.Registry, store gateway.Store) error {
	if _, ok := reg.Descriptor(customer.CountriesCollection); !ok {
		return nil
	}
	return customer.SeedCountries(ctx, store)
}

func newTranslator() (*i18n.Catalog, error) {
	return i18n.NewCatalog(fallbackLocale, customer.Translations())
}
