// Package reconcile computes the minimal set of marketplace updates needed
// to bring listings in line with a supplier feed. The reconciler is pure:
// no I/O, no mutation of inputs, and deterministic output for a
// deterministic pricing rule, so it can be tested without any network
// dependency.
package reconcile

import (
	"math"

	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
)

// Reconcile joins listings and feed items by article id and returns an
// update for every matched listing whose target price or stock differs from
// what is currently published.
//
// Listings present only on the marketplace, and feed items without a
// matching listing, are skipped and produce no update. Duplicate
// article ids within either input are a precondition violation: nothing is
// emitted and a DuplicateArticleError names the offending id. A negative
// price or stock anywhere in the input fails the same way with an
// InvalidRecordError.
//
// The result preserves the relative order of the listings input, which
// keeps repeated runs deterministic.
func Reconcile(listings []catalog.Listing, feed []catalog.FeedItem, opts ...Option) (*Result, error) {
	r := &reconciler{
		rule:      func(item catalog.FeedItem) float64 { return item.Price },
		tolerance: 0,
	}
	for _, opt := range opts {
		opt(r)
	}

	index, err := r.index(feed)
	if err != nil {
		return nil, err
	}

	result := &Result{Updates: []catalog.Update{}}

	seen := make(map[string]bool, len(listings))
	for _, listing := range listings {
		if err := listing.Validate(); err != nil {
			return nil, err
		}
		if seen[listing.ArticleID] {
			return nil, errors.NewDuplicateArticleError(listing.ArticleID, "listings")
		}
		seen[listing.ArticleID] = true

		item, ok := index[listing.ArticleID]
		if !ok {
			result.Summary.Skipped++
			continue
		}
		result.Summary.Matched++

		targetPrice := r.rule(item)
		if targetPrice < 0 {
			return nil, errors.NewInvalidRecordError(listing.ArticleID, "price", targetPrice, "pricing rule produced a negative price")
		}

		if !r.priceChanged(listing.Price, targetPrice) && listing.Stock == item.Stock {
			result.Summary.Unchanged++
			continue
		}

		result.Updates = append(result.Updates, catalog.Update{
			ArticleID: listing.ArticleID,
			Price:     targetPrice,
			Stock:     item.Stock,
		})
	}

	return result, nil
}

// reconciler holds the per-call policy knobs.
type reconciler struct {
	rule      func(catalog.FeedItem) float64
	tolerance float64
}

// index validates the feed and builds the article id lookup map.
func (r *reconciler) index(feed []catalog.FeedItem) (map[string]catalog.FeedItem, error) {
	index := make(map[string]catalog.FeedItem, len(feed))
	for _, item := range feed {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, ok := index[item.ArticleID]; ok {
			return nil, errors.NewDuplicateArticleError(item.ArticleID, "feed")
		}
		index[item.ArticleID] = item
	}
	return index, nil
}

// priceChanged reports whether the published and target prices differ by
// more than the configured tolerance.
func (r *reconciler) priceChanged(current, target float64) bool {
	return math.Abs(current-target) > r.tolerance
}
