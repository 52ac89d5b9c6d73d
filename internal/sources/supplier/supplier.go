// Package supplier implements the feed source for a supplier's published
// stock file. The feed is downloaded over HTTP, optionally unpacked from a
// zip archive, and decoded from an Excel sheet or a CSV export into feed
// records. All validation happens here, at the parse boundary.
package supplier

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/shopsync/shopsync/internal/transport"
	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
	"github.com/shopsync/shopsync/pkg/logging"
	"github.com/shopsync/shopsync/pkg/sources"
)

// Config describes where the feed lives and how to decode it.
type Config struct {
	// URL of the published feed (a zip archive, an .xlsx workbook, or a
	// .csv export).
	URL string

	// HeaderRow is the zero-based row index of the column header inside
	// an Excel sheet. Supplier sheets often carry a preamble above the
	// actual table (the reference feed has 17 rows of it).
	HeaderRow int

	// Columns maps the feed's column headers onto record fields.
	// Zero value columns fall back to DefaultColumns.
	Columns Columns

	// CSVComma overrides the CSV field delimiter. Defaults to ';',
	// the common delimiter of Russian supplier exports.
	CSVComma rune

	// CSVWindows1251 decodes CSV payloads from windows-1251 before
	// parsing, for legacy exports that are not UTF-8.
	CSVWindows1251 bool
}

// Columns names the feed columns holding each record field.
type Columns struct {
	Article  string
	Price    string
	Quantity string
}

// DefaultColumns matches the reference supplier feed.
var DefaultColumns = Columns{
	Article:  "Код",
	Price:    "Цена",
	Quantity: "Количество",
}

// Validate checks that the feed location is configured.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.NewConfigError("supplier", "feed url is required", nil)
	}
	return nil
}

// Feed downloads and decodes the supplier feed. It implements
// sources.FeedSource.
type Feed struct {
	cfg  Config
	http *transport.Client
}

// New creates a feed source from the config.
func New(cfg *Config) (*Feed, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolved := *cfg
	if resolved.Columns.Article == "" {
		resolved.Columns.Article = DefaultColumns.Article
	}
	if resolved.Columns.Price == "" {
		resolved.Columns.Price = DefaultColumns.Price
	}
	if resolved.Columns.Quantity == "" {
		resolved.Columns.Quantity = DefaultColumns.Quantity
	}
	if resolved.CSVComma == 0 {
		resolved.CSVComma = ';'
	}

	return &Feed{
		cfg:  resolved,
		http: transport.New(sources.SupplierID.String(), nil),
	}, nil
}

// ID implements sources.FeedSource.
func (f *Feed) ID() sources.ID {
	return sources.SupplierID
}

// Fetch downloads the feed and decodes it into feed items.
func (f *Feed) Fetch(ctx context.Context) ([]catalog.FeedItem, error) {
	payload, err := f.http.Download(ctx, f.cfg.URL)
	if err != nil {
		return nil, err
	}

	name := path.Base(f.cfg.URL)
	items, err := f.decode(payload, name)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("feed", name).
		Int("items", len(items)).
		Msg("Fetched supplier feed")

	return items, nil
}

// decode dispatches on the payload name, unpacking zip archives first.
func (f *Feed) decode(payload []byte, name string) ([]catalog.FeedItem, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".zip":
		inner, innerName, err := unzipFirst(payload, name)
		if err != nil {
			return nil, err
		}
		return f.decode(inner, innerName)
	case ".csv":
		return f.parseCSV(payload, name)
	default:
		return f.parseExcel(payload, name)
	}
}

// unzipFirst extracts the first feed file from a zip archive.
func unzipFirst(payload []byte, name string) ([]byte, string, error) {
	archive, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, "", errors.WrapFeedParse("zip", name, err)
	}

	for _, file := range archive.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, "", errors.WrapFeedParse("zip", name, err)
		}
		inner, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, "", errors.WrapFeedParse("zip", name, err)
		}
		return inner, file.Name, nil
	}

	return nil, "", errors.NewFeedParseError("zip", name, 0, "archive contains no files", nil)
}
