package supplier

import (
	"bytes"
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/shopsync/shopsync/pkg/catalog"
	"github.com/shopsync/shopsync/pkg/errors"
)

// parseCSV decodes a CSV export into feed items. The first record is the
// header; legacy windows-1251 exports are transcoded first when
// configured.
func (f *Feed) parseCSV(payload []byte, name string) ([]catalog.FeedItem, error) {
	var source io.Reader = bytes.NewReader(payload)
	if f.cfg.CSVWindows1251 {
		source = transform.NewReader(source, charmap.Windows1251.NewDecoder())
	}

	reader := csv.NewReader(source)
	reader.Comma = f.cfg.CSVComma
	reader.FieldsPerRecord = -1 // supplier exports have ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapFeedParse("csv", name, err)
	}
	if len(records) == 0 {
		return nil, errors.NewFeedParseError("csv", name, 0, "export is empty", nil)
	}

	columns, err := f.mapColumns(records[0], name, 1)
	if err != nil {
		return nil, err
	}

	items := []catalog.FeedItem{}
	for i := 1; i < len(records); i++ {
		item, ok, err := f.parseRow(records[i], columns, name, "csv", i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}

	return items, nil
}
