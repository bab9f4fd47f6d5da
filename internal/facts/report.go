package facts

import (
	"sort"
	"strconv"
	"strings"

	"ipldw/internal/dimensions"
)

// UnresolvedReport counts foreign-key resolution misses per fact column. An
// empty natural key is not a miss: the source genuinely had no value there
// and the reference is NULL by construction.
type UnresolvedReport struct {
	counts map[string]int
}

// NewUnresolvedReport returns an empty report.
func NewUnresolvedReport() *UnresolvedReport {
	return &UnresolvedReport{counts: map[string]int{}}
}

func (r *UnresolvedReport) add(column string) {
	r.counts[column]++
}

// Total returns the overall miss count.
func (r *UnresolvedReport) Total() int {
	n := 0
	for _, c := range r.counts {
		n += c
	}
	return n
}

// Empty reports whether no miss was recorded.
func (r *UnresolvedReport) Empty() bool { return len(r.counts) == 0 }

// Count returns the miss count for one fact column.
func (r *UnresolvedReport) Count(column string) int { return r.counts[column] }

// Columns returns the affected fact columns in sorted order.
func (r *UnresolvedReport) Columns() []string {
	cols := make([]string, 0, len(r.counts))
	for c := range r.counts {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// String renders the report as "column=count" pairs for log lines.
func (r *UnresolvedReport) String() string {
	if r.Empty() {
		return "none"
	}
	var b strings.Builder
	for i, c := range r.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString("=")
		b.WriteString(strconv.Itoa(r.counts[c]))
	}
	return b.String()
}

// keyed resolution helpers. Each returns the surrogate key or nil, recording
// a miss in the report for non-empty keys that do not resolve.

func resolveName(report *UnresolvedReport, column string, m map[string]int, name string) any {
	if name == "" {
		return nil
	}
	if id, ok := m[name]; ok {
		return id
	}
	report.add(column)
	return nil
}

func resolveDate(report *UnresolvedReport, column string, m map[string]int, key string) any {
	if id, ok := m[key]; ok {
		return id
	}
	report.add(column)
	return nil
}

func resolveVenue(report *UnresolvedReport, column string, m map[dimensions.VenueKey]int, vk dimensions.VenueKey) any {
	if vk.Venue == "" {
		return nil
	}
	if id, ok := m[vk]; ok {
		return id
	}
	report.add(column)
	return nil
}
