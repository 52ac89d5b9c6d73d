// Package catalog defines the product records exchanged between the
// marketplace, the supplier feed, and the reconciler. Records are plain
// values keyed by article id; validation happens at the parse boundary so
// the reconciler can assume well-formed input.
package catalog

import (
	"github.com/shopsync/shopsync/pkg/errors"
)

// Listing is a product entry as currently published on the marketplace.
type Listing struct {
	ArticleID string  `json:"article_id" yaml:"article_id"`
	Price     float64 `json:"price" yaml:"price"`
	Stock     int     `json:"stock" yaml:"stock"`
}

// FeedItem is one row of the supplier's published stock/price feed.
type FeedItem struct {
	ArticleID string  `json:"article_id" yaml:"article_id"`
	Price     float64 `json:"price" yaml:"price"`
	Stock     int     `json:"stock" yaml:"stock"`
}

// Update is the minimal change set required to bring one listing in line
// with the feed. It is consumed once by an update sink and not persisted.
type Update struct {
	ArticleID string  `json:"article_id" yaml:"article_id"`
	Price     float64 `json:"price" yaml:"price"`
	Stock     int     `json:"stock" yaml:"stock"`
}

// Validate checks the listing for structural validity.
func (l Listing) Validate() error {
	return validate(l.ArticleID, l.Price, l.Stock)
}

// Validate checks the feed item for structural validity.
func (f FeedItem) Validate() error {
	return validate(f.ArticleID, f.Price, f.Stock)
}

// Validate checks the update for structural validity.
func (u Update) Validate() error {
	return validate(u.ArticleID, u.Price, u.Stock)
}

func validate(articleID string, price float64, stock int) error {
	if articleID == "" {
		return errors.NewInvalidRecordError(articleID, "article_id", articleID, "must not be empty")
	}
	if price < 0 {
		return errors.NewInvalidRecordError(articleID, "price", price, "must not be negative")
	}
	if stock < 0 {
		return errors.NewInvalidRecordError(articleID, "stock", stock, "must not be negative")
	}
	return nil
}
