// Package shopsync keeps marketplace listings aligned with a supplier feed.
// A Shopsync instance wires one feed source to one or more marketplaces and
// runs the fetch, reconcile, and apply cycle on demand.
package shopsync

import (
	"context"

	"github.com/shopsync/shopsync/pkg/errors"
	"github.com/shopsync/shopsync/pkg/sources"
)

// Shopsync runs synchronization cycles against the configured marketplaces.
type Shopsync interface {
	// Sync fetches the feed and every marketplace's listings, reconciles
	// them, and applies the resulting updates unless running dry.
	Sync(ctx context.Context, opts ...SyncOption) (*Result, error)

	// Validate checks that every configured source is reachable by
	// fetching the feed and each marketplace's listings without applying
	// anything.
	Validate(ctx context.Context) error
}

// shopsync is the internal implementation of the Shopsync interface.
type shopsync struct {
	config *config
}

// New creates a Shopsync instance with the given options. A feed source and
// at least one marketplace are required.
func New(opts ...Option) (Shopsync, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.feed == nil {
		return nil, errors.NewConfigError("shopsync", "a feed source is required", nil)
	}
	if len(c.marketplaces) == 0 {
		return nil, errors.NewConfigError("shopsync", "at least one marketplace is required", nil)
	}

	seen := map[sources.ID]bool{}
	for _, m := range c.marketplaces {
		if seen[m.ID()] {
			return nil, errors.NewConfigError("shopsync", "marketplace "+m.ID().String()+" configured twice", nil)
		}
		seen[m.ID()] = true
	}

	return &shopsync{config: c}, nil
}

// Validate fetches from every configured source without writing anything.
func (s *shopsync) Validate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.config.feed.Fetch(ctx); err != nil {
		return err
	}
	for _, m := range s.config.marketplaces {
		if _, err := m.Listings(ctx); err != nil {
			return err
		}
	}
	return nil
}
