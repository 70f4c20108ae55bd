package dataset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

// Column names in the hourly usage CSV.
const (
	ColDate       = "dteday"
	ColHour       = "hr"
	ColSeason     = "season"
	ColWeather    = "weathersit"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
)

// RequiredColumns lists the columns the loader reads. Any other column is ignored.
var RequiredColumns = []string{ColDate, ColHour, ColSeason, ColWeather, ColCasual, ColRegistered, ColCount}

// Every column is read as text so that a bad value can be reported verbatim;
// gota would otherwise turn it into NaN.
var columnTypes = map[string]series.Type{
	ColDate:       series.String,
	ColHour:       series.String,
	ColSeason:     series.String,
	ColWeather:    series.String,
	ColCasual:     series.String,
	ColRegistered: series.String,
	ColCount:      series.String,
}

var (
	// ErrMissingColumn is returned when the CSV lacks one of RequiredColumns.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmpty is returned when the CSV has a header but no rows.
	ErrEmpty = errors.New("dataset has no rows")
)

// ParseError reports a value that could not be read. Row is 1-based and
// does not count the header line.
type ParseError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("parse %s: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("parse %s at row %d (%q): %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadCSV reads hourly usage records from r into a date-ordered table.
func ReadCSV(r io.Reader) (*rental.Table, error) {
	df := dataframe.ReadCSV(r, dataframe.WithTypes(columnTypes))
	if df.Err != nil {
		// gota reports a header-only or blank file as an "empty DataFrame".
		if strings.Contains(df.Err.Error(), "empty DataFrame") {
			return nil, ErrEmpty
		}
		return nil, &ParseError{Column: "csv", Err: df.Err}
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range RequiredColumns {
		if !present[name] {
			return nil, &ParseError{Column: name, Err: ErrMissingColumn}
		}
	}

	df = df.Select(RequiredColumns)
	if df.Err != nil {
		return nil, &ParseError{Column: "csv", Err: df.Err}
	}
	if df.Nrow() == 0 {
		return nil, ErrEmpty
	}

	dates, err := dateColumn(df.Col(ColDate))
	if err != nil {
		return nil, err
	}

	ints := make(map[string][]int, len(RequiredColumns)-1)
	for _, name := range RequiredColumns[1:] {
		vals, err := intColumn(name, df.Col(name))
		if err != nil {
			return nil, err
		}
		ints[name] = vals
	}

	records := make([]rental.Record, df.Nrow())
	for i := range records {
		records[i] = rental.Record{
			Date:       dates[i],
			Hour:       ints[ColHour][i],
			Season:     ints[ColSeason][i],
			Weather:    ints[ColWeather][i],
			Casual:     ints[ColCasual][i],
			Registered: ints[ColRegistered][i],
			Count:      ints[ColCount][i],
		}
	}

	return rental.NewTable(records), nil
}
