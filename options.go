package shopsync

import (
	"time"

	"github.com/shopsync/shopsync/pkg/errors"
	"github.com/shopsync/shopsync/pkg/pricing"
	"github.com/shopsync/shopsync/pkg/sources"
)

// config holds the wiring assembled by New's options.
type config struct {
	feed         sources.FeedSource
	marketplaces []sources.Marketplace
	rule         pricing.Rule
	tolerance    float64
}

func defaultConfig() *config {
	return &config{
		rule:      pricing.Identity(),
		tolerance: 0,
	}
}

// Option is a function that configures a Shopsync instance.
type Option func(*config) error

// WithFeed configures the supplier feed source.
func WithFeed(feed sources.FeedSource) Option {
	return func(c *config) error {
		if feed == nil {
			return errors.NewConfigError("shopsync", "feed source must not be nil", nil)
		}
		c.feed = feed
		return nil
	}
}

// WithMarketplace adds a marketplace to synchronize. May be repeated; each
// marketplace is reconciled against the same feed.
func WithMarketplace(m sources.Marketplace) Option {
	return func(c *config) error {
		if m == nil {
			return errors.NewConfigError("shopsync", "marketplace must not be nil", nil)
		}
		c.marketplaces = append(c.marketplaces, m)
		return nil
	}
}

// WithPricingRule configures the rule that derives target prices from feed
// records. Defaults to the feed price unchanged.
func WithPricingRule(rule pricing.Rule) Option {
	return func(c *config) error {
		if rule != nil {
			c.rule = rule
		}
		return nil
	}
}

// WithPriceTolerance configures how far a listing price may drift from the
// target before an update is emitted. Defaults to exact comparison.
func WithPriceTolerance(tolerance float64) Option {
	return func(c *config) error {
		if tolerance < 0 {
			return errors.NewConfigError("shopsync", "price tolerance must not be negative", nil)
		}
		c.tolerance = tolerance
		return nil
	}
}

// SyncOptions holds per-run settings.
type SyncOptions struct {
	// DryRun computes updates without applying them.
	DryRun bool

	// Timeout bounds the whole run. Zero means no timeout.
	Timeout time.Duration

	// Only restricts the run to the named marketplaces. Empty means all.
	Only []sources.ID
}

// NewSyncOptions applies sync options to the defaults.
func NewSyncOptions(opts ...SyncOption) *SyncOptions {
	options := &SyncOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// SyncOption is a function that configures a single Sync run.
type SyncOption func(*SyncOptions)

// WithDryRun computes and reports updates without applying them.
func WithDryRun(enabled bool) SyncOption {
	return func(o *SyncOptions) {
		o.DryRun = enabled
	}
}

// WithTimeout bounds the whole run.
func WithTimeout(timeout time.Duration) SyncOption {
	return func(o *SyncOptions) {
		o.Timeout = timeout
	}
}

// WithOnly restricts the run to the named marketplaces.
func WithOnly(ids ...sources.ID) SyncOption {
	return func(o *SyncOptions) {
		o.Only = append(o.Only, ids...)
	}
}

// includes reports whether the marketplace is in scope for this run.
func (o *SyncOptions) includes(id sources.ID) bool {
	if len(o.Only) == 0 {
		return true
	}
	for _, only := range o.Only {
		if only == id {
			return true
		}
	}
	return false
}
