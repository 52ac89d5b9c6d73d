package supplier

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
)

// buildWorkbook renders a supplier-style sheet: headerRow blank preamble
// rows, then the header, then the given data rows.
func buildWorkbook(t *testing.T, headerRow int, rows [][]any) []byte {
	t.Helper()

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	header := []any{"Код", "Цена", "Количество"}
	require.NoError(t, workbook.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow+1), &header))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", headerRow+2+i)
		require.NoError(t, workbook.SetSheetRow(sheet, cell, &row))
	}

	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// zipPayload wraps a single file into a zip archive.
func zipPayload(t *testing.T, name string, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	w, err := archive.Create(name)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, archive.Close())
	return buf.Bytes()
}

// serveFeed serves one payload at the given path and returns the feed URL.
func serveFeed(t *testing.T, name string, payload []byte) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/" + name
}

func TestFetchExcel(t *testing.T) {
	payload := buildWorkbook(t, 17, [][]any{
		{"A1", "5'990.00 руб.", ">10"},
		{"B2", "1 200", "3"},
		{"C3", "99.50", "1"},
		{"", "", ""},
	})
	feed, err := New(&Config{URL: serveFeed(t, "feed.xlsx", payload), HeaderRow: 17})
	require.NoError(t, err)

	items, err := feed.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []catalog.FeedItem{
		{ArticleID: "A1", Price: 5990, Stock: 100},
		{ArticleID: "B2", Price: 1200, Stock: 3},
		{ArticleID: "C3", Price: 99, Stock: 0},
	}, items)
}

func TestFetchZippedExcel(t *testing.T) {
	workbook := buildWorkbook(t, 0, [][]any{
		{"A1", "100", "2"},
	})
	payload := zipPayload(t, "price.xlsx", workbook)

	feed, err := New(&Config{URL: serveFeed(t, "feed.zip", payload)})
	require.NoError(t, err)

	items, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.FeedItem{{ArticleID: "A1", Price: 100, Stock: 2}}, items)
}

func TestFetchCSV(t *testing.T) {
	payload := []byte("Код;Цена;Количество\nA1;5'990.00 руб.;>10\nB2;250;0\n")
	feed, err := New(&Config{URL: serveFeed(t, "feed.csv", payload)})
	require.NoError(t, err)

	items, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.FeedItem{
		{ArticleID: "A1", Price: 5990, Stock: 100},
		{ArticleID: "B2", Price: 250, Stock: 0},
	}, items)
}

func TestFetchCSVWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Код;Цена;Количество\nA1;100;5\n")
	require.NoError(t, err)

	feed, err := New(&Config{
		URL:            serveFeed(t, "feed.csv", []byte(encoded)),
		CSVWindows1251: true,
	})
	require.NoError(t, err)

	items, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.FeedItem{{ArticleID: "A1", Price: 100, Stock: 5}}, items)
}

func TestFetchCustomColumns(t *testing.T) {
	payload := []byte("sku;price;qty\nA1;100;5\n")
	feed, err := New(&Config{
		URL:     serveFeed(t, "feed.csv", payload),
		Columns: Columns{Article: "sku", Price: "price", Quantity: "qty"},
	})
	require.NoError(t, err)

	items, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.FeedItem{{ArticleID: "A1", Price: 100, Stock: 5}}, items)
}

func TestFetchMissingColumn(t *testing.T) {
	payload := []byte("Код;Цена\nA1;100\n")
	feed, err := New(&Config{URL: serveFeed(t, "feed.csv", payload)})
	require.NoError(t, err)

	_, err = feed.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFeedParse(err))
	assert.Contains(t, err.Error(), "Количество")
}

func TestFetchBadQuantity(t *testing.T) {
	payload := []byte("Код;Цена;Количество\nA1;100;many\n")
	feed, err := New(&Config{URL: serveFeed(t, "feed.csv", payload)})
	require.NoError(t, err)

	_, err = feed.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFeedParse(err))

	var parseErr *errors.FeedParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Row)
}

func TestFetchEmptyZip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, zip.NewWriter(&buf).Close())

	feed, err := New(&Config{URL: serveFeed(t, "feed.zip", buf.Bytes())})
	require.NoError(t, err)

	_, err = feed.Fetch(context.Background())
	assert.True(t, errors.IsFeedParse(err))
}

func TestFetchUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	feed, err := New(&Config{URL: srv.URL + "/feed.xlsx"})
	require.NoError(t, err)

	_, err = feed.Fetch(context.Background())
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestConfigValidate(t *testing.T) {
	_, err := New(&Config{})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{">10", 100},
		{"1", 0},
		{"0", 0},
		{"", 0},
		{" 7 ", 7},
		{"12", 12},
	}
	for _, tt := range tests {
		got, err := parseQuantity(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseQuantity("many")
	assert.Error(t, err)
}
