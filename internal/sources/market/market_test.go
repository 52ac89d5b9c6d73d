package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(&Config{
		BaseURL:     srv.URL,
		Token:       "token",
		CampaignID:  "777",
		WarehouseID: "w1",
	})
	require.NoError(t, err)
	client.now = func() time.Time {
		return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	return client
}

func TestConfigValidate(t *testing.T) {
	_, err := New(&Config{CampaignID: "777", WarehouseID: "w1"})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = New(&Config{Token: "token", WarehouseID: "w1"})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = New(&Config{Token: "token", CampaignID: "777"})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestListings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /campaigns/777/offer-mapping-entries", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		// Two pages, driven by page_token.
		if r.URL.Query().Get("page_token") == "" {
			_, _ = w.Write([]byte(`{"result":{"offerMappingEntries":[{"offer":{"shopSku":"A1"}}],"paging":{"nextPageToken":"p2"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":{"offerMappingEntries":[{"offer":{"shopSku":"B2"}}],"paging":{}}}`))
	})
	mux.HandleFunc("GET /campaigns/777/offer-prices", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"offerPrices":[{"id":"A1","price":{"value":5990}},{"id":"B2","price":{"value":100}}],"paging":{}}}`))
	})
	mux.HandleFunc("POST /campaigns/777/offers/stocks", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"warehouses":[{"offers":[
			{"offerId":"A1","stocks":[{"type":"AVAILABLE","count":5},{"type":"DEFECT","count":1}]},
			{"offerId":"B2","stocks":[{"type":"AVAILABLE","count":0}]}
		]}],"paging":{}}}`))
	})

	client := newTestClient(t, mux)
	listings, err := client.Listings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []catalog.Listing{
		{ArticleID: "A1", Price: 5990, Stock: 5},
		{ArticleID: "B2", Price: 100, Stock: 0},
	}, listings)
}

func TestApply(t *testing.T) {
	var gotStocks updateStocksRequest
	var gotPrices updatePricesRequest

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /campaigns/777/offers/stocks", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotStocks))
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	})
	mux.HandleFunc("POST /campaigns/777/offer-prices/updates", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPrices))
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	})

	client := newTestClient(t, mux)
	accepted, err := client.Apply(context.Background(), []catalog.Update{
		{ArticleID: "A1", Price: 5990.4, Stock: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)

	require.Len(t, gotStocks.SKUs, 1)
	assert.Equal(t, "A1", gotStocks.SKUs[0].SKU)
	assert.Equal(t, "w1", gotStocks.SKUs[0].WarehouseID)
	require.Len(t, gotStocks.SKUs[0].Items, 1)
	assert.Equal(t, 5, gotStocks.SKUs[0].Items[0].Count)
	assert.Equal(t, "FIT", gotStocks.SKUs[0].Items[0].Type)
	assert.Equal(t, "2025-01-01T12:00:00Z", gotStocks.SKUs[0].Items[0].UpdatedAt)

	require.Len(t, gotPrices.Offers, 1)
	assert.Equal(t, 5990, gotPrices.Offers[0].Price.Value)
	assert.Equal(t, "RUR", gotPrices.Offers[0].Price.CurrencyID)
}

func TestApplyRejectedBatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /campaigns/777/offers/stocks", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","errors":[{"code":"BAD_SKU","message":"unknown sku"}]}`))
	})

	client := newTestClient(t, mux)
	_, err := client.Apply(context.Background(), []catalog.Update{
		{ArticleID: "A1", Price: 5990, Stock: 5},
	})

	require.Error(t, err)
	assert.True(t, errors.IsSinkRejected(err))

	var rejected *errors.SinkRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, []string{"A1"}, rejected.RejectedIDs)
	assert.Contains(t, err.Error(), "market")
}

func TestApplyEmpty(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())
	accepted, err := client.Apply(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, accepted)
}
