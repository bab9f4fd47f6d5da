package transform

import (
	"time"

	"ipldw/internal/dataset"
)

// Calendar decomposes the event date into the attributes carried by the date
// dimension: day/month/year, weekday name, ISO week, quarter, weekend flag.
type Calendar struct{}

func (Calendar) Name() string { return "calendar" }

func (Calendar) Apply(ds *dataset.Dataset) error {
	for i := range ds.Rows {
		r := &ds.Rows[i]
		r.Day = r.Date.Day()
		r.Month = int(r.Date.Month())
		r.Year = r.Date.Year()
		r.DayOfWeek = r.Date.Weekday().String()
		_, r.WeekOfYear = r.Date.ISOWeek()
		r.Quarter = (int(r.Date.Month())-1)/3 + 1
		wd := r.Date.Weekday()
		r.IsWeekend = wd == time.Saturday || wd == time.Sunday
	}
	return nil
}
