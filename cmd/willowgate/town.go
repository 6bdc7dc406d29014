// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/willowgate/willowgate/internal/catalog"
	"github.com/willowgate/willowgate/internal/config"
	"github.com/willowgate/willowgate/internal/facility"
	"github.com/willowgate/willowgate/internal/logging"
	"github.com/willowgate/willowgate/internal/observability"
	"github.com/willowgate/willowgate/internal/party"
	"github.com/willowgate/willowgate/internal/townd"
)

// ObservabilityServer is the subset of the observability server used here,
// abstracted for testing.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// TownDeps holds injectable dependencies for the town command.
// If a field is nil, the default implementation is used.
type TownDeps struct {
	ObservabilityServerFactory func(addr string, rc observability.ReadinessChecker) ObservabilityServer
}

// NewTownCmd creates the town subcommand.
func NewTownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "town",
		Short: "Start the town server",
		Long: `Start the town server: a TCP front end over the facility layer,
plus an HTTP observability endpoint for metrics and health probes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTownWithDeps(cmd.Context(), cmd, nil)
		},
	}

	// Flag names mirror config keys so they can override the file.
	cmd.Flags().String("listen.addr", config.DefaultAddr, "town TCP listen address")
	cmd.Flags().String("listen.metrics_addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log.format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().Int("costs.rest_base", config.DefaultRestBase, "inn rest base cost per member level")
	cmd.Flags().String("catalogs.shop_script", "", "Lua script defining the shop catalog")
	cmd.Flags().String("catalogs.shelf_script", "", "Lua script defining the spellbook shelf")

	return cmd
}

// runTownWithDeps starts the town server with injectable dependencies.
func runTownWithDeps(ctx context.Context, cmd *cobra.Command, deps *TownDeps) error {
	if deps == nil {
		deps = &TownDeps{}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, rc observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, rc)
		}
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetDefault("townd", version, cfg.Log.Format)

	slog.Info("starting town server",
		"town", cfg.Town.Name,
		"addr", cfg.Listen.Addr,
		"log_format", cfg.Log.Format,
	)

	newSession, err := sessionFactory(&cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Listen.MetricsAddr != "" {
		obs := deps.ObservabilityServerFactory(cfg.Listen.MetricsAddr, func() bool { return true })
		obsErrChan, err := obs.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		obsServer = obs
		if real, ok := obs.(*observability.Server); ok {
			metrics = real.Metrics()
		}
		slog.Info("observability server started", "addr", obs.Addr())
	}

	townServer := townd.NewServer(cfg.Listen.Addr, cfg.Town.Name, newSession, metrics)

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		if runErr := townServer.Run(ctx); runErr != nil {
			errChan <- runErr
		}
	}()

	cmd.Println("Town server started")
	slog.Info("town server ready", "town", cfg.Town.Name)

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errChan:
		return fmt.Errorf("town server error: %w", err)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// sessionFactory builds the per-connection session constructor: catalogs are
// loaded once and shared as templates, but every session gets fresh service
// state so one visitor's purchases do not drain another's shelves.
func sessionFactory(cfg *config.Config) (townd.SessionFactory, error) {
	loadShop := func() (*catalog.Catalog, error) {
		if cfg.Catalogs.ShopScript == "" {
			return catalog.DefaultShopCatalog(), nil
		}
		return catalog.LoadShopScript(cfg.Catalogs.ShopScript)
	}
	loadShelf := func() (*catalog.ShelfCatalog, error) {
		if cfg.Catalogs.ShelfScript == "" {
			return catalog.DefaultSpellbookCatalog(), nil
		}
		return catalog.LoadShelfScript(cfg.Catalogs.ShelfScript)
	}

	// Validate the scripts once at startup so a broken catalog fails fast.
	if _, err := loadShop(); err != nil {
		return nil, fmt.Errorf("failed to load shop catalog: %w", err)
	}
	if _, err := loadShelf(); err != nil {
		return nil, fmt.Errorf("failed to load shelf catalog: %w", err)
	}

	restBase := cfg.Costs.RestBase
	blessingFee := cfg.Costs.Blessing
	analysisFee := cfg.Costs.Analysis

	return func() (*townd.Session, error) {
		shop, err := loadShop()
		if err != nil {
			return nil, err
		}
		shelf, err := loadShelf()
		if err != nil {
			return nil, err
		}

		reg := facility.NewRegistry()
		services := map[facility.ID]facility.ServiceFactory{
			facility.Guild:      func() facility.Service { return facility.NewGuild() },
			facility.Inn:        func() facility.Service { return facility.NewInn(restBase) },
			facility.Shop:       func() facility.Service { return facility.NewShop(shop) },
			facility.Temple:     func() facility.Service { return facility.NewTemple(blessingFee) },
			facility.MagicGuild: func() facility.Service { return facility.NewMagicGuild(shelf, analysisFee) },
		}
		for id, f := range services {
			if err := reg.RegisterService(id, f); err != nil {
				return nil, err
			}
		}

		p, err := newStarterParty()
		if err != nil {
			return nil, err
		}
		return &townd.Session{Registry: reg, Party: p}, nil
	}, nil
}

// newStarterParty creates the demo party every connection starts with.
func newStarterParty() (*party.Party, error) {
	p, err := party.New("Wanderers", 800)
	if err != nil {
		return nil, err
	}

	brann, err := party.NewCharacter("Brann", party.ClassFighter, 3)
	if err != nil {
		return nil, err
	}
	brann.MaxHP, brann.HP = 34, 20
	brann.MaxMP, brann.MP = 0, 0

	selene, err := party.NewCharacter("Selene", party.ClassMage, 2)
	if err != nil {
		return nil, err
	}
	selene.MaxHP, selene.HP = 14, 14
	selene.MaxMP, selene.MP = 10, 4
	selene.Inventory = []party.Item{
		{ID: "dusty_amulet", Name: "Dusty Amulet"},
	}

	for _, c := range []*party.Character{brann, selene} {
		if err := p.AddMember(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
