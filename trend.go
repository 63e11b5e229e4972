package trinity

import "fmt"

// TrendWindow is the length, in trading days, of the simple moving average
// used as the trend filter.
const TrendWindow = 200

// AboveTrend reports whether the close price on 'on' is strictly above the
// simple moving average of the trailing 'window' closes ending at 'on'
// inclusive. It fails, it does not silently report false, when fewer than
// 'window' observations exist: a missing average corrupts the tilt decision.
func AboveTrend(close *Series, on Date, window int) (bool, error) {
	avg, err := close.MovingAverage(on, window)
	if err != nil {
		return false, err
	}
	price, ok := close.Get(on)
	if !ok {
		return false, fmt.Errorf("no close on %s: %w", on, ErrMissingPrice)
	}
	return price > avg, nil
}
