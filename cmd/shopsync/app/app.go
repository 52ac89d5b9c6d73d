// Package app provides the application context and dependency wiring for
// the shopsync CLI: configuration, logging, and the lazily built Shopsync
// instance the commands run against.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/shopsync/shopsync"
	"github.com/shopsync/shopsync/internal/sources/market"
	"github.com/shopsync/shopsync/internal/sources/ozon"
	"github.com/shopsync/shopsync/internal/sources/supplier"
	"github.com/shopsync/shopsync/pkg/pricing"
)

// App represents the shopsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Shopsync instance (lazy-initialized, singleton)
	mu       sync.Mutex
	shopsync shopsync.Shopsync
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	a.config = config

	logger := NewLogger(config)
	a.logger = &logger

	return a, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Shopsync returns the Shopsync instance, creating it lazily from the
// configured credentials. Only marketplaces with credentials present are
// wired in.
func (a *App) Shopsync() (shopsync.Shopsync, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.shopsync != nil {
		return a.shopsync, nil
	}

	opts, err := a.buildOptions()
	if err != nil {
		return nil, err
	}

	s, err := shopsync.New(opts...)
	if err != nil {
		return nil, err
	}

	a.shopsync = s
	return s, nil
}

// buildOptions translates the config into shopsync options.
func (a *App) buildOptions() ([]shopsync.Option, error) {
	var opts []shopsync.Option

	feed, err := supplier.New(&supplier.Config{
		URL:            a.config.FeedURL,
		HeaderRow:      a.config.FeedHeaderRow,
		CSVWindows1251: a.config.FeedWindows1251,
	})
	if err != nil {
		return nil, err
	}
	opts = append(opts, shopsync.WithFeed(feed))

	if a.config.OzonConfigured() {
		client, err := ozon.New(&ozon.Config{
			ClientID: a.config.OzonClientID,
			APIKey:   a.config.OzonAPIKey,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, shopsync.WithMarketplace(client))
	}

	if a.config.MarketConfigured() {
		client, err := market.New(&market.Config{
			Token:       a.config.MarketToken,
			CampaignID:  a.config.MarketCampaignID,
			WarehouseID: a.config.MarketWarehouseID,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, shopsync.WithMarketplace(client))
	}

	if a.config.RulesFile != "" {
		rules, err := pricing.LoadRules(a.config.RulesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			shopsync.WithPricingRule(rules.Rule()),
			shopsync.WithPriceTolerance(rules.PriceTolerance),
		)
	}

	return opts, nil
}
