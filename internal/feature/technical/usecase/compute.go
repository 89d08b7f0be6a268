package usecase

import (
	"fmt"
	"time"

	"stock_signals/internal/feature/technical/domain/entity"
)

// Indicator windows. Documented once here; the same values are echoed in
// Summary.Params so downstream prompts can state their assumptions.
const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	kdjN       = 9
	kdjM1      = 3
	kdjM2      = 3
	bollPeriod = 20
	bollStd    = 2
)

var (
	maPeriods  = []int{5, 10, 20, 60}
	rsiPeriods = []int{6, 12, 24}
	srWindows  = []int{5, 20, 60}
)

// Compute derives an IndicatorSnapshot from a bar series ordered oldest to
// newest. It is a pure function: any indicator whose window exceeds the
// series length is simply absent, and an empty series yields the zero
// snapshot. Malformed bars (non-positive prices) are a caller bug and are
// not guarded beyond the documented zero-range and zero-low checks.
func Compute(bars []entity.Bar) entity.IndicatorSnapshot {
	var snap entity.IndicatorSnapshot
	if len(bars) == 0 {
		return snap
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	snap.MA5 = sma(closes, 5)
	snap.MA10 = sma(closes, 10)
	snap.MA20 = sma(closes, 20)
	snap.MA60 = sma(closes, 60)

	if dif, dea, hist := macdSeries(closes, macdFast, macdSlow, macdSignal); dif != nil {
		last := len(dif) - 1
		snap.MACDDIF = &dif[last]
		snap.MACDDEA = &dea[last]
		snap.MACDHist = &hist[last]
		if dif[last] > dea[last] {
			snap.MACDCross = entity.CrossGolden
		} else {
			snap.MACDCross = entity.CrossDead
		}
		snap.MACDCrossDays = crossDays(dif, dea, snap.MACDCross)
	}

	snap.RSI6 = rsi(closes, 6)
	snap.RSI12 = rsi(closes, 12)
	snap.RSI24 = rsi(closes, 24)

	if k, d, j := kdjSeries(bars, kdjN); k != nil {
		last := len(k) - 1
		snap.KDJK = &k[last]
		snap.KDJD = &d[last]
		snap.KDJJ = &j[last]
		if k[last] > d[last] {
			snap.KDJCross = entity.CrossGolden
		} else {
			snap.KDJCross = entity.CrossDead
		}
	}

	snap.BollUpper, snap.BollMid, snap.BollLower, snap.BollWidth = bollinger(closes, bollPeriod, bollStd)

	snap.VolumeMA5 = sma(volumes, 5)
	snap.VolumeMA10 = sma(volumes, 10)
	if snap.VolumeMA5 != nil && *snap.VolumeMA5 > 0 {
		ratio := volumes[len(volumes)-1] / *snap.VolumeMA5
		snap.VolumeRatio = &ratio
		switch {
		case ratio > 1.5:
			snap.VolumeTrend = entity.VolumeExpanding
		case ratio < 0.7:
			snap.VolumeTrend = entity.VolumeShrinking
		default:
			snap.VolumeTrend = entity.VolumeFlat
		}
	}

	if len(closes) >= 6 {
		prior := closes[len(closes)-6]
		change := (closes[len(closes)-1] - prior) / prior * 100
		snap.Change5D = &change
	}
	if len(closes) >= 21 {
		prior := closes[len(closes)-21]
		change := (closes[len(closes)-1] - prior) / prior * 100
		snap.Change20D = &change
	}

	curr := bars[len(bars)-1]
	if curr.Low > 0 {
		amp := (curr.High - curr.Low) / curr.Low * 100
		snap.Amplitude = &amp
	}
	if len(bars) >= 5 {
		sum := 0.0
		n := 0
		for _, b := range bars[len(bars)-5:] {
			if b.Low > 0 {
				sum += (b.High - b.Low) / b.Low * 100
				n++
			}
		}
		if n > 0 {
			avg := sum / float64(n)
			snap.AmplitudeAvg5 = &avg
		}
	}

	snap.SupportS, snap.ResistanceS = supportResistance(bars, 5)
	snap.SupportM, snap.ResistanceM = supportResistance(bars, 20)
	snap.SupportL, snap.ResistanceL = supportResistance(bars, 60)
	// Legacy aliases point at the 20-bar levels.
	snap.Support = snap.SupportM
	snap.Resistance = snap.ResistanceM

	snap.Pattern = detectPattern(bars)

	return snap
}

// supportResistance returns the trailing window's min low and max high,
// or nils when the series is shorter than the window.
func supportResistance(bars []entity.Bar, window int) (support, resistance *float64) {
	if len(bars) < window {
		return nil, nil
	}
	recent := bars[len(bars)-window:]
	lo := recent[0].Low
	hi := recent[0].High
	for _, b := range recent[1:] {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	return &lo, &hi
}

// Summarize wraps Compute with the prompt-facing metadata: trend and status
// labels, the recent up-day count, and the parameter block.
func Summarize(bars []entity.Bar) entity.Summary {
	now := time.Now().UTC().Format(time.RFC3339)
	summary := entity.Summary{
		Timeframe:  "1d",
		ComputedAt: now,
		Trend:      entity.TrendInsufficientData,
		Params: entity.Params{
			MA:                maPeriods,
			MACDFast:          macdFast,
			MACDSlow:          macdSlow,
			MACDSignal:        macdSignal,
			RSIPeriods:        rsiPeriods,
			KDJN:              kdjN,
			KDJM1:             kdjM1,
			KDJM2:             kdjM2,
			BollPeriod:        bollPeriod,
			BollStd:           bollStd,
			SupportResistance: srWindows,
		},
	}
	if len(bars) == 0 {
		return summary
	}

	snap := Compute(bars)
	summary.IndicatorSnapshot = snap
	summary.AsOf = bars[len(bars)-1].Date
	lastClose := bars[len(bars)-1].Close
	summary.LastClose = &lastClose

	recent := bars
	if len(bars) > 5 {
		recent = bars[len(bars)-5:]
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Close > recent[i-1].Close {
			summary.Recent5Up++
		}
	}

	if snap.MA5 != nil && snap.MA10 != nil && snap.MA20 != nil {
		switch {
		case *snap.MA5 > *snap.MA10 && *snap.MA10 > *snap.MA20:
			summary.Trend = entity.TrendBullishAligned
		case *snap.MA5 < *snap.MA10 && *snap.MA10 < *snap.MA20:
			summary.Trend = entity.TrendBearishAligned
		default:
			summary.Trend = entity.TrendMixed
		}
	}

	if snap.MACDCross != "" {
		if snap.MACDCrossDays != nil {
			summary.MACDStatus = fmt.Sprintf("%s(%dd)", snap.MACDCross, *snap.MACDCrossDays)
		} else {
			summary.MACDStatus = string(snap.MACDCross)
		}
	}

	summary.RSIStatus = rsiStatus(snap.RSI6)
	summary.KDJStatus = kdjStatus(snap)
	summary.BollStatus = bollStatus(lastClose, snap)

	return summary
}

// rsiStatus maps RSI6 to a coarse label: >80 overbought, >70 strong,
// <20 oversold, <30 weak, else neutral.
func rsiStatus(rsi6 *float64) string {
	if rsi6 == nil {
		return ""
	}
	switch {
	case *rsi6 > 80:
		return "overbought"
	case *rsi6 > 70:
		return "strong"
	case *rsi6 < 20:
		return "oversold"
	case *rsi6 < 30:
		return "weak"
	default:
		return "neutral"
	}
}

// kdjStatus combines the K/D cross with the J-line overbought(>100) /
// oversold(<0) condition.
func kdjStatus(snap entity.IndicatorSnapshot) string {
	if snap.KDJK == nil || snap.KDJD == nil {
		return ""
	}
	if snap.KDJJ != nil && *snap.KDJJ > 100 {
		return string(snap.KDJCross) + "/overbought"
	}
	if snap.KDJJ != nil && *snap.KDJJ < 0 {
		return string(snap.KDJCross) + "/oversold"
	}
	return string(snap.KDJCross)
}

// bollStatus labels the close against the bands, falling back to a band
// width label: <5% squeezed, >15% expanding, else normal.
func bollStatus(lastClose float64, snap entity.IndicatorSnapshot) string {
	if snap.BollUpper == nil || snap.BollLower == nil {
		return ""
	}
	switch {
	case lastClose > *snap.BollUpper:
		return "above-upper-band"
	case lastClose < *snap.BollLower:
		return "below-lower-band"
	case snap.BollWidth != nil && *snap.BollWidth < 5:
		return "squeezed"
	case snap.BollWidth != nil && *snap.BollWidth > 15:
		return "expanding"
	default:
		return "normal"
	}
}
