// Package sources defines the collaborator contracts around the reconciler:
// where listings come from, where the supplier feed comes from, and where
// computed updates go. Implementations live under internal/sources; the
// reconciler itself never performs I/O.
package sources

import (
	"context"

	"github.com/shopsync/shopsync/pkg/catalog"
)

// ID identifies a collaborator implementation.
type ID string

// String returns the string representation of a source id.
func (id ID) String() string {
	return string(id)
}

// Known collaborator ids.
const (
	OzonID     ID = "ozon"
	MarketID   ID = "market"
	SupplierID ID = "supplier"
)

// CatalogSource returns the seller's current marketplace listings.
// Implementations fail with a SourceError on transport failure.
type CatalogSource interface {
	// ID identifies this source
	ID() ID

	// Listings fetches the current marketplace listings
	Listings(ctx context.Context) ([]catalog.Listing, error)
}

// FeedSource returns the supplier's published stock/price feed.
// Implementations fail with a SourceError on transport failure or a
// FeedParseError when the payload cannot be decoded.
type FeedSource interface {
	// ID identifies this source
	ID() ID

	// Fetch downloads and decodes the supplier feed
	Fetch(ctx context.Context) ([]catalog.FeedItem, error)
}

// UpdateSink applies computed updates to the marketplace and returns the
// count of accepted updates. Partial rejection surfaces as a
// SinkRejectedError carrying the rejected article ids.
type UpdateSink interface {
	// ID identifies this sink
	ID() ID

	// Apply pushes updates to the marketplace
	Apply(ctx context.Context, updates []catalog.Update) (int, error)
}

// Marketplace pairs the two sides of one marketplace integration.
type Marketplace interface {
	CatalogSource
	UpdateSink
}
