// Package pricing maps supplier feed prices to marketplace prices.
// A Rule is policy supplied by the caller: markup, rounding, and currency
// normalization compose into a single function the reconciler applies to
// every matched feed item.
package pricing

import (
	"math"

	"github.com/shopsync/shopsync/pkg/catalog"
)

// Rule maps a feed item to the price that should be published on the
// marketplace. Rules must be deterministic: the reconciler relies on that
// for idempotent runs.
type Rule func(item catalog.FeedItem) float64

// Identity publishes the feed price unchanged.
func Identity() Rule {
	return func(item catalog.FeedItem) float64 {
		return item.Price
	}
}

// Markup increases the feed price by the given percentage.
// Markup(20) turns 100 into 120. Negative percentages discount.
func Markup(percent float64) Rule {
	return func(item catalog.FeedItem) float64 {
		return item.Price * (1 + percent/100)
	}
}

// RoundUpTo rounds the feed price up to the nearest multiple of step.
// A step of 10 turns 5991 into 6000. Non-positive steps leave the price
// untouched.
func RoundUpTo(step float64) Rule {
	return func(item catalog.FeedItem) float64 {
		if step <= 0 {
			return item.Price
		}
		return math.Ceil(item.Price/step) * step
	}
}

// Chain applies rules left to right, feeding each rule's output into the
// next as the item price.
func Chain(rules ...Rule) Rule {
	return func(item catalog.FeedItem) float64 {
		price := item.Price
		for _, rule := range rules {
			item.Price = price
			price = rule(item)
		}
		return price
	}
}
