package model

import "time"

// SeriesPoint is one step of a backtest input series: a price joined with
// the sentiment index observed at (or nearest to) the same timestamp.
// IndexMissing marks steps where no real index value was available; the
// Index field is meaningless on such steps.
type SeriesPoint struct {
	Time           time.Time
	Price          float64
	Index          int
	Classification string
	IndexMissing   bool
}
