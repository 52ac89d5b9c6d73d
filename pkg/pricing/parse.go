package pricing

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopsync/shopsync/pkg/errors"
)

// ParsePrice normalizes a formatted supplier price string into a float.
// Feeds publish prices like "5'990.00 руб." with grouping marks and a
// currency suffix; the fractional part is cut at the first decimal point
// and every non-digit in the integral part is dropped.
//
//	ParsePrice("5'990.00 руб.") == 5990
//	ParsePrice("1 200")         == 1200
func ParsePrice(s string) (float64, error) {
	integral, _, _ := strings.Cut(s, ".")

	var b strings.Builder
	for _, r := range integral {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return 0, errors.NewInvalidRecordError("", "price", s, "no digits in price")
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, errors.NewInvalidRecordError("", "price", s, err.Error())
	}
	return value, nil
}
