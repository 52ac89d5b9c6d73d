package shopsync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
	"github.com/shopsync/shopsync/pkg/pricing"
	"github.com/shopsync/shopsync/pkg/sources"
)

type fakeFeed struct {
	items []catalog.FeedItem
	err   error
	calls int
}

func (f *fakeFeed) ID() sources.ID { return sources.SupplierID }

func (f *fakeFeed) Fetch(_ context.Context) ([]catalog.FeedItem, error) {
	f.calls++
	return f.items, f.err
}

type fakeMarketplace struct {
	id       sources.ID
	listings []catalog.Listing
	applied  []catalog.Update
	applyErr error
}

func (m *fakeMarketplace) ID() sources.ID { return m.id }

func (m *fakeMarketplace) Listings(_ context.Context) ([]catalog.Listing, error) {
	return m.listings, nil
}

func (m *fakeMarketplace) Apply(_ context.Context, updates []catalog.Update) (int, error) {
	m.applied = append(m.applied, updates...)
	if m.applyErr != nil {
		return 0, m.applyErr
	}
	return len(updates), nil
}

func TestNewRequiresWiring(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = New(WithFeed(&fakeFeed{}))
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = New(
		WithFeed(&fakeFeed{}),
		WithMarketplace(&fakeMarketplace{id: sources.OzonID}),
		WithMarketplace(&fakeMarketplace{id: sources.OzonID}),
	)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = New(
		WithFeed(&fakeFeed{}),
		WithMarketplace(&fakeMarketplace{id: sources.OzonID}),
		WithPriceTolerance(-1),
	)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestSyncAppliesUpdates(t *testing.T) {
	feed := &fakeFeed{items: []catalog.FeedItem{
		{ArticleID: "A1", Price: 90, Stock: 5},
		{ArticleID: "B2", Price: 200, Stock: 0},
	}}
	ozon := &fakeMarketplace{id: sources.OzonID, listings: []catalog.Listing{
		{ArticleID: "A1", Price: 100, Stock: 5},
		{ArticleID: "B2", Price: 200, Stock: 0},
	}}
	market := &fakeMarketplace{id: sources.MarketID, listings: []catalog.Listing{
		{ArticleID: "B2", Price: 180, Stock: 3},
	}}

	s, err := New(
		WithFeed(feed),
		WithMarketplace(ozon),
		WithMarketplace(market),
	)
	require.NoError(t, err)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, feed.calls, "feed fetched once per run")
	assert.Equal(t, 2, result.FeedItems)
	assert.True(t, result.HasChanges())
	assert.Equal(t, 2, result.TotalUpdates())

	require.Len(t, result.Marketplaces, 2)
	assert.Equal(t, sources.OzonID, result.Marketplaces[0].ID)
	assert.Equal(t, 1, result.Marketplaces[0].Updates)
	assert.Equal(t, 1, result.Marketplaces[0].Accepted)
	assert.Equal(t, 1, result.Marketplaces[0].Summary.Unchanged)

	assert.Equal(t, []catalog.Update{{ArticleID: "A1", Price: 90, Stock: 5}}, ozon.applied)
	assert.Equal(t, []catalog.Update{{ArticleID: "B2", Price: 200, Stock: 0}}, market.applied)
}

func TestSyncDryRun(t *testing.T) {
	feed := &fakeFeed{items: []catalog.FeedItem{{ArticleID: "A1", Price: 90, Stock: 5}}}
	ozon := &fakeMarketplace{id: sources.OzonID, listings: []catalog.Listing{
		{ArticleID: "A1", Price: 100, Stock: 5},
	}}

	s, err := New(WithFeed(feed), WithMarketplace(ozon))
	require.NoError(t, err)

	result, err := s.Sync(context.Background(), WithDryRun(true))
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.TotalUpdates())
	assert.Zero(t, result.Marketplaces[0].Accepted)
	assert.Empty(t, ozon.applied, "dry run must not write")
}

func TestSyncPricingRule(t *testing.T) {
	feed := &fakeFeed{items: []catalog.FeedItem{{ArticleID: "A1", Price: 100, Stock: 5}}}
	ozon := &fakeMarketplace{id: sources.OzonID, listings: []catalog.Listing{
		{ArticleID: "A1", Price: 100, Stock: 5},
	}}

	s, err := New(
		WithFeed(feed),
		WithMarketplace(ozon),
		WithPricingRule(pricing.Markup(20)),
	)
	require.NoError(t, err)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, ozon.applied, 1)
	assert.InDelta(t, 120, ozon.applied[0].Price, 1e-9)
	assert.Equal(t, 1, result.TotalUpdates())
}

func TestSyncOnly(t *testing.T) {
	feed := &fakeFeed{items: []catalog.FeedItem{{ArticleID: "A1", Price: 90, Stock: 1}}}
	ozon := &fakeMarketplace{id: sources.OzonID, listings: []catalog.Listing{
		{ArticleID: "A1", Price: 100, Stock: 1},
	}}
	market := &fakeMarketplace{id: sources.MarketID, listings: []catalog.Listing{
		{ArticleID: "A1", Price: 100, Stock: 1},
	}}

	s, err := New(WithFeed(feed), WithMarketplace(ozon), WithMarketplace(market))
	require.NoError(t, err)

	result, err := s.Sync(context.Background(), WithOnly(sources.MarketID))
	require.NoError(t, err)

	require.Len(t, result.Marketplaces, 1)
	assert.Equal(t, sources.MarketID, result.Marketplaces[0].ID)
	assert.Empty(t, ozon.applied)
	assert.Len(t, market.applied, 1)
}

func TestSyncFeedError(t *testing.T) {
	feed := &fakeFeed{err: errors.NewFeedParseError("xlsx", "feed.xlsx", 3, "bad row", nil)}
	s, err := New(WithFeed(feed), WithMarketplace(&fakeMarketplace{id: sources.OzonID}))
	require.NoError(t, err)

	_, err = s.Sync(context.Background())
	assert.True(t, errors.IsFeedParse(err))
}

func TestSyncApplyError(t *testing.T) {
	feed := &fakeFeed{items: []catalog.FeedItem{{ArticleID: "A1", Price: 90, Stock: 5}}}
	ozon := &fakeMarketplace{
		id:       sources.OzonID,
		listings: []catalog.Listing{{ArticleID: "A1", Price: 100, Stock: 5}},
		applyErr: errors.NewSinkRejectedError("ozon", []string{"A1"}, nil),
	}

	s, err := New(WithFeed(feed), WithMarketplace(ozon))
	require.NoError(t, err)

	_, err = s.Sync(context.Background())
	assert.True(t, errors.IsSinkRejected(err))
}

func TestValidate(t *testing.T) {
	feed := &fakeFeed{items: []catalog.FeedItem{{ArticleID: "A1", Price: 90, Stock: 5}}}
	ozon := &fakeMarketplace{id: sources.OzonID}

	s, err := New(WithFeed(feed), WithMarketplace(ozon))
	require.NoError(t, err)

	require.NoError(t, s.Validate(context.Background()))
	assert.Equal(t, 1, feed.calls)

	broken, err := New(
		WithFeed(&fakeFeed{err: errors.NewSourceError("supplier", "http://feed", 502, nil)}),
		WithMarketplace(ozon),
	)
	require.NoError(t, err)
	assert.True(t, errors.IsSourceUnavailable(broken.Validate(context.Background())))
}
