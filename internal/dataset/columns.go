package dataset

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/series"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
)

var errMissingValue = errors.New("missing value")

func dateColumn(s series.Series) ([]time.Time, error) {
	raw := s.Records()
	out := make([]time.Time, len(raw))
	for i, v := range raw {
		if isMissing(v) {
			return nil, &ParseError{Column: ColDate, Row: i + 1, Value: v, Err: errMissingValue}
		}
		d, err := common.ParseDay(v)
		if err != nil {
			return nil, &ParseError{Column: ColDate, Row: i + 1, Value: v, Err: err}
		}
		out[i] = d
	}
	return out, nil
}

func intColumn(name string, s series.Series) ([]int, error) {
	raw := s.Records()
	out := make([]int, len(raw))
	for i, v := range raw {
		if isMissing(v) {
			return nil, &ParseError{Column: name, Row: i + 1, Value: v, Err: errMissingValue}
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, &ParseError{Column: name, Row: i + 1, Value: v, Err: err}
		}
		out[i] = n
	}
	return out, nil
}

func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "NaN"
}
