package reconcile

import "github.com/shopsync/shopsync/pkg/catalog"

// Result holds the updates computed by one reconciliation together with a
// summary of how the inputs were joined.
type Result struct {
	// Updates, in the same relative order as the listings input.
	Updates []catalog.Update

	// Summary counts how each listing was handled.
	Summary Summary
}

// Summary breaks down the listings input of one reconciliation.
type Summary struct {
	// Matched listings found in the feed, changed or not.
	Matched int

	// Unchanged matched listings that needed no update.
	Unchanged int

	// Skipped listings with no feed counterpart.
	Skipped int
}

// HasChanges reports whether any updates were produced.
func (r *Result) HasChanges() bool {
	return len(r.Updates) > 0
}
