package rental

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
)

// DateRange is an inclusive [Start, End] interval at day granularity.
// A range with Start after End is valid and matches nothing.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range, truncating both ends to the day.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: common.Day(start), End: common.Day(end)}
}

// Contains reports whether the day of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := common.Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Empty reports whether the range cannot match any day.
func (r DateRange) Empty() bool {
	return r.Start.After(r.End)
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: common.FormatDay(r.Start),
		End:   common.FormatDay(r.End),
	})
}

// Table is an immutable, date-ordered set of usage records.
type Table struct {
	records []Record
	source  string
	loaded  time.Time
}

// NewTable copies records, normalises their dates and sorts them ascending by date.
// Rows sharing a date keep their input order.
func NewTable(records []Record) *Table {
	rs := make([]Record, len(records))
	for i, r := range records {
		r.Date = common.Day(r.Date)
		rs[i] = r
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Date.Before(rs[j].Date)
	})
	return &Table{records: rs, loaded: time.Now().UTC()}
}

// WithSource returns a copy of t annotated with where it was loaded from.
func (t *Table) WithSource(source string) *Table {
	cp := *t
	cp.source = source
	return &cp
}

// Source is the path or URL the table was loaded from, if known.
func (t *Table) Source() string {
	return t.source
}

// LoadedAt is when the table was built.
func (t *Table) LoadedAt() time.Time {
	return t.loaded
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the rows.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Bounds returns the min and max date present. ok is false for an empty table.
func (t *Table) Bounds() (r DateRange, ok bool) {
	if t.Len() == 0 {
		return DateRange{}, false
	}
	return DateRange{
		Start: t.records[0].Date,
		End:   t.records[len(t.records)-1].Date,
	}, true
}

// Filter returns a new table holding the rows whose date lies in r.
// The receiver is left untouched.
func (t *Table) Filter(r DateRange) *Table {
	out := &Table{records: []Record{}}
	if t == nil {
		return out
	}
	out.source = t.source
	out.loaded = t.loaded
	r = NewDateRange(r.Start, r.End)
	if r.Empty() {
		return out
	}

	// Rows are date-ordered, so the match is one contiguous run.
	lo := sort.Search(len(t.records), func(i int) bool {
		return !t.records[i].Date.Before(r.Start)
	})
	hi := sort.Search(len(t.records), func(i int) bool {
		return t.records[i].Date.After(r.End)
	})
	if lo < hi {
		out.records = make([]Record, hi-lo)
		copy(out.records, t.records[lo:hi])
	}
	return out
}
