package model

import (
	"fmt"
	"time"
)

// STAC catalogs are not entirely consistent about datetime formatting: some
// emit RFC3339 with a Z suffix, some with fractional seconds, some with a
// numeric offset. We need lenient "multi-format" parsing, implemented here.

// StandardTimeLayout is the preferred format when writing datetimes back out
const StandardTimeLayout = "2006-01-02T15:04:05.999999999Z"

var stacTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseStacTime is a drop-in replacement for time.Parse, but matching against
// multiple possible catalog time formats
func ParseStacTime(stacTime string) (time.Time, error) {
	for _, layout := range stacTimeLayouts {
		if output, err := time.Parse(layout, stacTime); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("date could not be parsed by any expected time format: `%s`", stacTime)
}
