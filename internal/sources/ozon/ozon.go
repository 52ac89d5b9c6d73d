// Package ozon implements the marketplace catalog source and update sink
// for the Ozon Seller API. Listings are assembled from the paginated
// product list plus the price and stock info endpoints; updates are pushed
// through the batched import endpoints.
package ozon

import (
	"context"
	"strconv"

	"github.com/shopsync/shopsync/internal/transport"
	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
	"github.com/shopsync/shopsync/pkg/logging"
	"github.com/shopsync/shopsync/pkg/sources"
)

const (
	// DefaultBaseURL is the production Ozon Seller API endpoint.
	DefaultBaseURL = "https://api-seller.ozon.ru"

	// pageLimit caps one page of the product list.
	pageLimit = 1000

	// priceBatchSize caps one price import request.
	priceBatchSize = 900

	// stockBatchSize caps one stock import request.
	stockBatchSize = 100
)

// Config carries the credentials and endpoint for one Ozon seller account.
type Config struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// ClientID is the seller's client identifier (Client-Id header).
	ClientID string

	// APIKey is the seller token (Api-Key header).
	APIKey string
}

// Validate checks that the required credentials are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.NewConfigError("ozon", "client id is required", nil)
	}
	if c.APIKey == "" {
		return errors.NewConfigError("ozon", "seller token is required", nil)
	}
	return nil
}

// Client talks to the Ozon Seller API. It implements both
// sources.CatalogSource and sources.UpdateSink.
type Client struct {
	baseURL string
	http    *transport.Client
}

// New creates an Ozon client from the config.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	auth := &transport.HeaderAuth{Headers: map[string]string{
		"Client-Id": cfg.ClientID,
		"Api-Key":   cfg.APIKey,
	}}

	return &Client{
		baseURL: baseURL,
		http:    transport.New(sources.OzonID.String(), auth),
	}, nil
}

// ID implements sources.CatalogSource and sources.UpdateSink.
func (c *Client) ID() sources.ID {
	return sources.OzonID
}

// Listings fetches the seller's current listings: the full offer list,
// then current prices and stocks for every offer. The returned slice
// preserves the product list order.
func (c *Client) Listings(ctx context.Context) ([]catalog.Listing, error) {
	offerIDs, err := c.offerIDs(ctx)
	if err != nil {
		return nil, err
	}

	prices, err := c.prices(ctx, offerIDs)
	if err != nil {
		return nil, err
	}
	stocks, err := c.stocks(ctx, offerIDs)
	if err != nil {
		return nil, err
	}

	listings := make([]catalog.Listing, 0, len(offerIDs))
	for _, offerID := range offerIDs {
		listings = append(listings, catalog.Listing{
			ArticleID: offerID,
			Price:     prices[offerID],
			Stock:     stocks[offerID],
		})
	}

	logging.Ctx(ctx).Debug().
		Int("listings", len(listings)).
		Msg("Fetched Ozon listings")

	return listings, nil
}

// Apply pushes updates through the batched price and stock import
// endpoints and returns the count of fully accepted updates.
func (c *Client) Apply(ctx context.Context, updates []catalog.Update) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	rejected := map[string]bool{}

	for _, batch := range sources.Chunk(updates, priceBatchSize) {
		req := importPricesRequest{Prices: make([]importPrice, 0, len(batch))}
		for _, update := range batch {
			req.Prices = append(req.Prices, importPrice{
				AutoActionEnabled: "UNKNOWN",
				CurrencyCode:      "RUB",
				OfferID:           update.ArticleID,
				OldPrice:          "0",
				Price:             strconv.FormatFloat(update.Price, 'f', -1, 64),
			})
		}

		var resp importResponse
		if err := c.http.PostJSON(ctx, c.baseURL+"/v1/product/import/prices", req, &resp); err != nil {
			return 0, err
		}
		collectRejected(rejected, resp)
	}

	for _, batch := range sources.Chunk(updates, stockBatchSize) {
		req := importStocksRequest{Stocks: make([]importStock, 0, len(batch))}
		for _, update := range batch {
			req.Stocks = append(req.Stocks, importStock{
				OfferID: update.ArticleID,
				Stock:   update.Stock,
			})
		}

		var resp importResponse
		if err := c.http.PostJSON(ctx, c.baseURL+"/v1/product/import/stocks", req, &resp); err != nil {
			return 0, err
		}
		collectRejected(rejected, resp)
	}

	accepted := 0
	rejectedIDs := []string{}
	for _, update := range updates {
		if rejected[update.ArticleID] {
			rejectedIDs = append(rejectedIDs, update.ArticleID)
			continue
		}
		accepted++
	}

	if len(rejectedIDs) > 0 {
		return accepted, errors.NewSinkRejectedError(sources.OzonID.String(), rejectedIDs, nil)
	}
	return accepted, nil
}

// offerIDs walks the paginated product list and collects every offer id.
func (c *Client) offerIDs(ctx context.Context) ([]string, error) {
	var offerIDs []string
	lastID := ""

	for {
		req := productListRequest{
			Filter: productListFilter{Visibility: "ALL"},
			LastID: lastID,
			Limit:  pageLimit,
		}

		var resp productListResponse
		if err := c.http.PostJSON(ctx, c.baseURL+"/v2/product/list", req, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Result.Items {
			offerIDs = append(offerIDs, item.OfferID)
		}

		lastID = resp.Result.LastID
		if len(resp.Result.Items) == 0 || len(offerIDs) >= resp.Result.Total {
			break
		}
	}

	return offerIDs, nil
}

// prices fetches the current price for each offer id.
func (c *Client) prices(ctx context.Context, offerIDs []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(offerIDs))

	for _, batch := range sources.Chunk(offerIDs, pageLimit) {
		req := pricesInfoRequest{Filter: offerIDFilter{OfferID: batch}, Limit: pageLimit}

		var resp pricesInfoResponse
		if err := c.http.PostJSON(ctx, c.baseURL+"/v4/product/info/prices", req, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			price, err := strconv.ParseFloat(item.Price.Price, 64)
			if err != nil {
				return nil, errors.NewInvalidRecordError(item.OfferID, "price", item.Price.Price, err.Error())
			}
			prices[item.OfferID] = price
		}
	}

	return prices, nil
}

// stocks fetches the present stock for each offer id, summed across
// warehouses.
func (c *Client) stocks(ctx context.Context, offerIDs []string) (map[string]int, error) {
	stocks := make(map[string]int, len(offerIDs))

	for _, batch := range sources.Chunk(offerIDs, pageLimit) {
		req := stocksInfoRequest{Filter: offerIDFilter{OfferID: batch}, Limit: pageLimit}

		var resp stocksInfoResponse
		if err := c.http.PostJSON(ctx, c.baseURL+"/v3/product/info/stocks", req, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			total := 0
			for _, stock := range item.Stocks {
				total += stock.Present
			}
			stocks[item.OfferID] = total
		}
	}

	return stocks, nil
}

// collectRejected records offer ids the import endpoint refused.
func collectRejected(rejected map[string]bool, resp importResponse) {
	for _, item := range resp.Result {
		if !item.Updated || len(item.Errors) > 0 {
			rejected[item.OfferID] = true
		}
	}
}
