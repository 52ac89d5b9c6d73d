// Package market implements the marketplace catalog source and update sink
// for the Yandex.Market partner API. Listings are assembled from the
// page-token paginated offer mappings plus the price and stock endpoints;
// updates are pushed through the campaign stock and price endpoints.
package market

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/shopsync/shopsync/internal/transport"
	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
	"github.com/shopsync/shopsync/pkg/logging"
	"github.com/shopsync/shopsync/pkg/sources"
)

const (
	// DefaultBaseURL is the production Yandex.Market partner API endpoint.
	DefaultBaseURL = "https://api.partner.market.yandex.ru"

	// pageLimit caps one page of offer mappings.
	pageLimit = 200

	// priceBatchSize caps one price update request.
	priceBatchSize = 500

	// stockBatchSize caps one stock update request.
	stockBatchSize = 2000
)

// Config carries the credentials and campaign scope for one Yandex.Market
// seller account.
type Config struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// Token is the OAuth access token (Bearer auth).
	Token string

	// CampaignID scopes every call to one campaign (FBS or DBS).
	CampaignID string

	// WarehouseID names the warehouse stock updates are written to.
	WarehouseID string
}

// Validate checks that the required credentials are present.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.NewConfigError("market", "access token is required", nil)
	}
	if c.CampaignID == "" {
		return errors.NewConfigError("market", "campaign id is required", nil)
	}
	if c.WarehouseID == "" {
		return errors.NewConfigError("market", "warehouse id is required", nil)
	}
	return nil
}

// Client talks to the Yandex.Market partner API. It implements both
// sources.CatalogSource and sources.UpdateSink.
type Client struct {
	baseURL     string
	campaignID  string
	warehouseID string
	http        *transport.Client

	// now is swappable for deterministic stock timestamps in tests.
	now func() time.Time
}

// New creates a Yandex.Market client from the config.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:     baseURL,
		campaignID:  cfg.CampaignID,
		warehouseID: cfg.WarehouseID,
		http:        transport.New(sources.MarketID.String(), &transport.BearerAuth{Token: cfg.Token}),
		now:         time.Now,
	}, nil
}

// ID implements sources.CatalogSource and sources.UpdateSink.
func (c *Client) ID() sources.ID {
	return sources.MarketID
}

// Listings fetches the campaign's current listings: every mapped shop SKU,
// then current prices and warehouse stocks. The returned slice preserves
// the offer mapping order.
func (c *Client) Listings(ctx context.Context) ([]catalog.Listing, error) {
	skus, err := c.shopSKUs(ctx)
	if err != nil {
		return nil, err
	}

	prices, err := c.prices(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := c.stocks(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]catalog.Listing, 0, len(skus))
	for _, sku := range skus {
		listings = append(listings, catalog.Listing{
			ArticleID: sku,
			Price:     prices[sku],
			Stock:     stocks[sku],
		})
	}

	logging.Ctx(ctx).Debug().
		Str("campaign", c.campaignID).
		Int("listings", len(listings)).
		Msg("Fetched Yandex.Market listings")

	return listings, nil
}

// Apply pushes stock updates to the campaign warehouse and price updates
// to the campaign, both batched, and returns the count of accepted updates.
// The API acks whole batches, so rejection is all-or-nothing per batch.
func (c *Client) Apply(ctx context.Context, updates []catalog.Update) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	updatedAt := c.now().UTC().Truncate(time.Second).Format(time.RFC3339)

	for _, batch := range sources.Chunk(updates, stockBatchSize) {
		req := updateStocksRequest{SKUs: make([]stockSKU, 0, len(batch))}
		for _, update := range batch {
			req.SKUs = append(req.SKUs, stockSKU{
				SKU:         update.ArticleID,
				WarehouseID: c.warehouseID,
				Items: []stockItem{{
					Count:     update.Stock,
					Type:      "FIT",
					UpdatedAt: updatedAt,
				}},
			})
		}

		var resp statusResponse
		if err := c.http.PutJSON(ctx, c.campaignURL("offers/stocks", nil), req, &resp); err != nil {
			return 0, err
		}
		if err := resp.rejection(batch); err != nil {
			return 0, err
		}
	}

	for _, batch := range sources.Chunk(updates, priceBatchSize) {
		req := updatePricesRequest{Offers: make([]offerPrice, 0, len(batch))}
		for _, update := range batch {
			req.Offers = append(req.Offers, offerPrice{
				ID: update.ArticleID,
				Price: priceValue{
					Value:      int(math.Round(update.Price)),
					CurrencyID: "RUR",
				},
			})
		}

		var resp statusResponse
		if err := c.http.PostJSON(ctx, c.campaignURL("offer-prices/updates", nil), req, &resp); err != nil {
			return 0, err
		}
		if err := resp.rejection(batch); err != nil {
			return 0, err
		}
	}

	return len(updates), nil
}

// shopSKUs walks the paginated offer mappings and collects every shop SKU.
func (c *Client) shopSKUs(ctx context.Context) ([]string, error) {
	var skus []string
	pageToken := ""

	for {
		var resp offerMappingsResponse
		if err := c.http.GetJSON(ctx, c.campaignURL("offer-mapping-entries", pageQuery(pageToken)), &resp); err != nil {
			return nil, err
		}

		for _, entry := range resp.Result.OfferMappingEntries {
			skus = append(skus, entry.Offer.ShopSKU)
		}

		pageToken = resp.Result.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return skus, nil
}

// prices fetches the current price by shop SKU.
func (c *Client) prices(ctx context.Context) (map[string]float64, error) {
	prices := map[string]float64{}
	pageToken := ""

	for {
		var resp offerPricesResponse
		if err := c.http.GetJSON(ctx, c.campaignURL("offer-prices", pageQuery(pageToken)), &resp); err != nil {
			return nil, err
		}

		for _, offer := range resp.Result.OfferPrices {
			prices[offer.ID] = offer.Price.Value
		}

		pageToken = resp.Result.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return prices, nil
}

// stocks fetches the available stock by shop SKU, summed across warehouses.
func (c *Client) stocks(ctx context.Context) (map[string]int, error) {
	stocks := map[string]int{}
	pageToken := ""

	for {
		var resp stocksResponse
		req := stocksRequest{WithTurnover: false}
		if err := c.http.PostJSON(ctx, c.campaignURL("offers/stocks", pageQuery(pageToken)), req, &resp); err != nil {
			return nil, err
		}

		for _, warehouse := range resp.Result.Warehouses {
			for _, offer := range warehouse.Offers {
				for _, stock := range offer.Stocks {
					if stock.Type == "AVAILABLE" {
						stocks[offer.OfferID] += stock.Count
					}
				}
			}
		}

		pageToken = resp.Result.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return stocks, nil
}

// campaignURL builds a campaign-scoped endpoint URL.
func (c *Client) campaignURL(endpoint string, query url.Values) string {
	u := fmt.Sprintf("%s/campaigns/%s/%s", c.baseURL, c.campaignID, endpoint)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// pageQuery builds the pagination query for a page token.
func pageQuery(pageToken string) url.Values {
	query := url.Values{"limit": {fmt.Sprint(pageLimit)}}
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}
	return query
}

// rejection maps a non-OK status to a SinkRejectedError covering the batch.
func (r *statusResponse) rejection(batch []catalog.Update) error {
	if r.Status == "" || r.Status == "OK" {
		return nil
	}

	ids := make([]string, 0, len(batch))
	for _, update := range batch {
		ids = append(ids, update.ArticleID)
	}

	var cause error
	if len(r.Errors) > 0 {
		cause = errors.New(r.Errors[0].Message)
	}
	return errors.NewSinkRejectedError(sources.MarketID.String(), ids, cause)
}
