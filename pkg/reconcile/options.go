package reconcile

import "github.com/shopsync/shopsync/pkg/catalog"

// Option configures a single Reconcile call.
type Option func(*reconciler)

// WithPricingRule sets the function that maps a feed item to the target
// marketplace price. The default publishes the feed price unchanged.
func WithPricingRule(rule func(catalog.FeedItem) float64) Option {
	return func(r *reconciler) {
		if rule != nil {
			r.rule = rule
		}
	}
}

// WithPriceTolerance sets the maximum absolute price difference that still
// counts as "unchanged". The default of 0 requires exact equality.
// Negative tolerances are clamped to 0.
func WithPriceTolerance(tolerance float64) Option {
	return func(r *reconciler) {
		if tolerance < 0 {
			tolerance = 0
		}
		r.tolerance = tolerance
	}
}
