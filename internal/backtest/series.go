package backtest

import (
	"errors"
	"fmt"

	"CoinVault/internal/model"
)

// ErrMalformedSeries wraps every series validation failure so callers can
// distinguish bad input from a mid-run failure.
var ErrMalformedSeries = errors.New("malformed series")

// ValidateSeries rejects a series before any simulation state is touched.
// Timestamps must be strictly increasing and every price positive.
func ValidateSeries(series []model.SeriesPoint) error {
	if len(series) == 0 {
		return fmt.Errorf("%w: empty series", ErrMalformedSeries)
	}
	for i, p := range series {
		if p.Price <= 0 {
			return fmt.Errorf("%w: non-positive price %.8f at step %d (%s)",
				ErrMalformedSeries, p.Price, i, p.Time.Format("2006-01-02"))
		}
		if i > 0 && !p.Time.After(series[i-1].Time) {
			return fmt.Errorf("%w: timestamp %s at step %d does not advance past %s",
				ErrMalformedSeries, p.Time.Format("2006-01-02 15:04:05"), i,
				series[i-1].Time.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
