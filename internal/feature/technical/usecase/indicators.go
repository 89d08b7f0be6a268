// Package usecase implements the technical indicator engine: pure
// computations over a daily bar series, no I/O, no hidden state.
package usecase

import (
	"math"

	"stock_signals/internal/feature/technical/domain/entity"
)

// sma returns the simple mean of the last period values, or nil when the
// series is shorter than the window.
func sma(values []float64, period int) *float64 {
	if len(values) < period {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	m := sum / float64(period)
	return &m
}

// ema computes the exponential moving average series seeded with the first
// value, multiplier 2/(period+1).
func ema(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	out[0] = values[0]
	mult := 2.0 / float64(period+1)
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*mult + out[i-1]
	}
	return out
}

// macdSeries returns the full DIF/DEA/histogram series for crossover
// scanning, or nils when fewer than slow+signal closes exist.
func macdSeries(closes []float64, fast, slow, signal int) (dif, dea, hist []float64) {
	if len(closes) < slow+signal {
		return nil, nil, nil
	}
	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)
	dif = make([]float64, len(closes))
	for i := range closes {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea = ema(dif, signal)
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = (dif[i] - dea[i]) * 2
	}
	return dif, dea, hist
}

// rsi computes the relative strength index over the trailing period deltas.
//
// Deliberately the simple trailing-window mean of gains/losses, not Wilder's
// recursive smoothing: downstream consumers were calibrated against this
// form. Returns 100 when the average loss is exactly zero.
func rsi(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}
	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}
	avgGain := 0.0
	avgLoss := 0.0
	for _, g := range gains[len(gains)-period:] {
		avgGain += g
	}
	for _, l := range losses[len(losses)-period:] {
		avgLoss += l
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		v := 100.0
		return &v
	}
	rs := avgGain / avgLoss
	v := 100 - (100 / (1 + rs))
	return &v
}

// kdjSeries computes the K/D/J series with an n-bar RSV window and 2/3-1/3
// smoothing. K and D are seeded at 50 on the first computable bar; RSV
// defaults to 50 when the window has no range. J = 3K - 2D is unbounded.
func kdjSeries(bars []entity.Bar, n int) (k, d, j []float64) {
	if len(bars) < n {
		return nil, nil, nil
	}
	for i := n - 1; i < len(bars); i++ {
		window := bars[i-n+1 : i+1]
		highest := window[0].High
		lowest := window[0].Low
		for _, b := range window[1:] {
			highest = math.Max(highest, b.High)
			lowest = math.Min(lowest, b.Low)
		}

		rsv := 50.0
		if highest != lowest {
			rsv = (bars[i].Close - lowest) / (highest - lowest) * 100
		}

		var kv, dv float64
		if len(k) == 0 {
			kv = 50
			dv = 50
		} else {
			kv = (2.0/3.0)*k[len(k)-1] + (1.0/3.0)*rsv
			dv = (2.0/3.0)*d[len(d)-1] + (1.0/3.0)*kv
		}

		k = append(k, kv)
		d = append(d, dv)
		j = append(j, 3*kv-2*dv)
	}
	return k, d, j
}

// bollinger computes the upper/mid/lower bands over the trailing window
// using the population standard deviation, plus the band width as a percent
// of the mid band.
func bollinger(closes []float64, period int, numStd float64) (upper, mid, lower, width *float64) {
	if len(closes) < period {
		return nil, nil, nil, nil
	}
	recent := closes[len(closes)-period:]
	m := 0.0
	for _, c := range recent {
		m += c
	}
	m /= float64(period)

	variance := 0.0
	for _, c := range recent {
		variance += (c - m) * (c - m)
	}
	variance /= float64(period)
	std := math.Sqrt(variance)

	u := m + numStd*std
	l := m - numStd*std
	w := 0.0
	if m > 0 {
		w = (u - l) / m * 100
	}
	return &u, &m, &l, &w
}

// crossDays scans backward through two series for the most recent crossover
// matching direction and returns how many bars ago it happened. Returns nil
// when no such crossover exists in the series.
func crossDays(series1, series2 []float64, direction entity.Cross) *int {
	if len(series1) < 2 || len(series2) < 2 {
		return nil
	}
	for i := len(series1) - 2; i >= 0; i-- {
		switch direction {
		case entity.CrossGolden:
			// series1 crossing series2 from below
			if series1[i] <= series2[i] && series1[i+1] > series2[i+1] {
				days := len(series1) - 1 - i
				return &days
			}
		default:
			if series1[i] >= series2[i] && series1[i+1] < series2[i+1] {
				days := len(series1) - 1 - i
				return &days
			}
		}
	}
	return nil
}

// detectPattern classifies the last one or two bars into the fixed candle
// pattern vocabulary. Needs at least two bars; a zero-range bar yields none.
func detectPattern(bars []entity.Bar) entity.CandlePattern {
	if len(bars) < 2 {
		return entity.PatternNone
	}
	curr := bars[len(bars)-1]
	prev := bars[len(bars)-2]

	body := math.Abs(curr.Close - curr.Open)
	upperShadow := curr.High - math.Max(curr.Close, curr.Open)
	lowerShadow := math.Min(curr.Close, curr.Open) - curr.Low
	totalRange := curr.High - curr.Low

	if totalRange == 0 {
		return entity.PatternNone
	}
	bodyRatio := body / totalRange

	// Doji family: tiny body relative to the range
	if bodyRatio < 0.1 {
		if upperShadow > body*2 && lowerShadow > body*2 {
			return entity.PatternDoji
		}
		if upperShadow > body*3 {
			return entity.PatternDojiTop
		}
		if lowerShadow > body*3 {
			return entity.PatternDojiBottom
		}
	}

	// Hammer: long lower shadow, body near the top
	if lowerShadow > body*2 && upperShadow < body*0.5 {
		if curr.Close > curr.Open {
			return entity.PatternHammerBull
		}
		return entity.PatternHammerBear
	}

	// Inverted hammer / shooting star: long upper shadow
	if upperShadow > body*2 && lowerShadow < body*0.5 {
		if curr.Close > curr.Open {
			return entity.PatternInvertedHammer
		}
		return entity.PatternShootingStar
	}

	// Engulfing: current body dominates and fully contains the previous one
	prevBody := math.Abs(prev.Close - prev.Open)
	if body > prevBody*1.5 {
		if prev.Close < prev.Open && curr.Close > curr.Open {
			if curr.Close > prev.Open && curr.Open < prev.Close {
				return entity.PatternBullishEngulfing
			}
		} else if prev.Close > prev.Open && curr.Close < curr.Open {
			if curr.Open > prev.Close && curr.Close < prev.Open {
				return entity.PatternBearishEngulfing
			}
		}
	}

	// Marubozu-like full-body candles with a >3% move
	if bodyRatio > 0.7 && curr.Open > 0 {
		changePct := (curr.Close - curr.Open) / curr.Open * 100
		if changePct > 3 {
			return entity.PatternBigBullCandle
		}
		if changePct < -3 {
			return entity.PatternBigBearCandle
		}
	}

	return entity.PatternNone
}
