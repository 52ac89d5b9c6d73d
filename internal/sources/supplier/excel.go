package supplier

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
	"github.com/shopsync/shopsync/pkg/pricing"
)

// parseExcel decodes the first sheet of an Excel workbook into feed items.
// The header row is located at cfg.HeaderRow; rows above it are preamble
// and ignored.
func (f *Feed) parseExcel(payload []byte, name string) ([]catalog.FeedItem, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapFeedParse("xlsx", name, err)
	}
	defer workbook.Close() //nolint:errcheck // read-only workbook

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewFeedParseError("xlsx", name, 0, "workbook has no sheets", nil)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WrapFeedParse("xlsx", name, err)
	}

	if f.cfg.HeaderRow >= len(rows) {
		return nil, errors.NewFeedParseError("xlsx", name, f.cfg.HeaderRow+1, "header row is past the end of the sheet", nil)
	}

	columns, err := f.mapColumns(rows[f.cfg.HeaderRow], name, f.cfg.HeaderRow+1)
	if err != nil {
		return nil, err
	}

	items := []catalog.FeedItem{}
	for i := f.cfg.HeaderRow + 1; i < len(rows); i++ {
		item, ok, err := f.parseRow(rows[i], columns, name, "xlsx", i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}

	return items, nil
}

// columnIndex locates each configured column in a header row.
type columnIndex struct {
	article  int
	price    int
	quantity int
}

// mapColumns resolves the configured column names against a header row.
func (f *Feed) mapColumns(header []string, name string, rowNum int) (columnIndex, error) {
	columns := columnIndex{article: -1, price: -1, quantity: -1}

	for i, cell := range header {
		switch strings.TrimSpace(cell) {
		case f.cfg.Columns.Article:
			columns.article = i
		case f.cfg.Columns.Price:
			columns.price = i
		case f.cfg.Columns.Quantity:
			columns.quantity = i
		}
	}

	if columns.article < 0 {
		return columns, errors.NewFeedParseError("xlsx", name, rowNum, "article column "+strconv.Quote(f.cfg.Columns.Article)+" not found", nil)
	}
	if columns.price < 0 {
		return columns, errors.NewFeedParseError("xlsx", name, rowNum, "price column "+strconv.Quote(f.cfg.Columns.Price)+" not found", nil)
	}
	if columns.quantity < 0 {
		return columns, errors.NewFeedParseError("xlsx", name, rowNum, "quantity column "+strconv.Quote(f.cfg.Columns.Quantity)+" not found", nil)
	}

	return columns, nil
}

// parseRow decodes one data row. Rows with an empty article cell are
// skipped (trailing totals and blank lines).
func (f *Feed) parseRow(row []string, columns columnIndex, name, format string, rowNum int) (catalog.FeedItem, bool, error) {
	article := strings.TrimSpace(cellAt(row, columns.article))
	if article == "" {
		return catalog.FeedItem{}, false, nil
	}

	price, err := pricing.ParsePrice(cellAt(row, columns.price))
	if err != nil {
		return catalog.FeedItem{}, false, errors.NewFeedParseError(format, name, rowNum, "bad price for article "+article, err)
	}

	stock, err := parseQuantity(cellAt(row, columns.quantity))
	if err != nil {
		return catalog.FeedItem{}, false, errors.NewFeedParseError(format, name, rowNum, "bad quantity for article "+article, err)
	}

	item := catalog.FeedItem{ArticleID: article, Price: price, Stock: stock}
	if err := item.Validate(); err != nil {
		return catalog.FeedItem{}, false, errors.NewFeedParseError(format, name, rowNum, "invalid record", err)
	}
	return item, true, nil
}

// parseQuantity maps the feed's quantity notation to a stock count.
// The supplier publishes ">10" for well-stocked items and "1" for the
// last display unit, which is not sellable.
func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "0":
		return 0, nil
	case ">10":
		return 100, nil
	case "1":
		return 0, nil
	}
	return strconv.Atoi(s)
}

// cellAt returns the cell at index i, tolerating short rows.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
