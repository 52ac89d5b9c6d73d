package shopsync

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/logging"
	"github.com/shopsync/shopsync/pkg/reconcile"
	"github.com/shopsync/shopsync/pkg/sources"
)

// Result aggregates one Sync run across all marketplaces.
type Result struct {
	// DryRun records whether updates were withheld.
	DryRun bool `json:"dry_run"`

	// FeedItems is the number of records parsed from the feed.
	FeedItems int `json:"feed_items"`

	// Marketplaces holds one entry per marketplace, in configuration order.
	Marketplaces []MarketplaceResult `json:"marketplaces"`
}

// MarketplaceResult reports one marketplace's share of a run.
type MarketplaceResult struct {
	// ID names the marketplace.
	ID sources.ID `json:"id"`

	// Listings is the number of listings fetched.
	Listings int `json:"listings"`

	// Summary carries the reconciliation counts.
	Summary reconcile.Summary `json:"summary"`

	// Updates is the number of updates computed.
	Updates int `json:"updates"`

	// Accepted is the number of updates the marketplace acknowledged.
	// Zero on dry runs.
	Accepted int `json:"accepted"`
}

// HasChanges reports whether any marketplace had updates to apply.
func (r *Result) HasChanges() bool {
	for _, m := range r.Marketplaces {
		if m.Updates > 0 {
			return true
		}
	}
	return false
}

// TotalUpdates sums the computed updates across marketplaces.
func (r *Result) TotalUpdates() int {
	total := 0
	for _, m := range r.Marketplaces {
		total += m.Updates
	}
	return total
}

// Sync fetches the feed once, then reconciles and updates each marketplace
// in configuration order. Marketplaces run sequentially; the first failure
// aborts the run.
func (s *shopsync) Sync(ctx context.Context, opts ...SyncOption) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := NewSyncOptions(opts...)

	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	ctx = logging.WithRunID(ctx, newRunID())

	feed, err := s.config.feed.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().
		Int("items", len(feed)).
		Msg("Fetched supplier feed")

	result := &Result{
		DryRun:    options.DryRun,
		FeedItems: len(feed),
	}

	for _, marketplace := range s.config.marketplaces {
		if !options.includes(marketplace.ID()) {
			continue
		}

		mr, err := s.syncMarketplace(ctx, marketplace, feed, options)
		if err != nil {
			return nil, err
		}
		result.Marketplaces = append(result.Marketplaces, mr)
	}

	if result.HasChanges() {
		logging.Ctx(ctx).Info().
			Int("updates", result.TotalUpdates()).
			Bool("dry_run", options.DryRun).
			Msg("Sync completed")
	} else {
		logging.Ctx(ctx).Info().Msg("No changes detected")
	}

	return result, nil
}

// newRunID returns a short random id used to correlate one run's log lines.
func newRunID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// syncMarketplace runs one marketplace's fetch, reconcile, and apply leg.
func (s *shopsync) syncMarketplace(ctx context.Context, marketplace sources.Marketplace, feed []catalog.FeedItem, options *SyncOptions) (MarketplaceResult, error) {
	log := logging.Ctx(ctx).With().Str("marketplace", marketplace.ID().String()).Logger()

	listings, err := marketplace.Listings(ctx)
	if err != nil {
		return MarketplaceResult{}, err
	}

	reconciled, err := reconcile.Reconcile(listings, feed,
		reconcile.WithPricingRule(s.config.rule),
		reconcile.WithPriceTolerance(s.config.tolerance),
	)
	if err != nil {
		return MarketplaceResult{}, err
	}

	mr := MarketplaceResult{
		ID:       marketplace.ID(),
		Listings: len(listings),
		Summary:  reconciled.Summary,
		Updates:  len(reconciled.Updates),
	}

	log.Info().
		Int("listings", mr.Listings).
		Int("matched", mr.Summary.Matched).
		Int("unchanged", mr.Summary.Unchanged).
		Int("skipped", mr.Summary.Skipped).
		Int("updates", mr.Updates).
		Msg("Reconciled marketplace")

	if options.DryRun || len(reconciled.Updates) == 0 {
		return mr, nil
	}

	accepted, err := marketplace.Apply(ctx, reconciled.Updates)
	mr.Accepted = accepted
	if err != nil {
		return mr, err
	}

	log.Info().Int("accepted", accepted).Msg("Applied updates")
	return mr, nil
}
