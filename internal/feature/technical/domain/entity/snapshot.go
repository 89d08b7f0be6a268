package entity

// Cross labels the direction of a two-line crossover.
type Cross string

const (
	CrossGolden Cross = "golden"
	CrossDead   Cross = "dead"
)

// Trend labels the ordering of the short/mid moving averages.
type Trend string

const (
	TrendBullishAligned   Trend = "bullish-aligned" // MA5 > MA10 > MA20
	TrendBearishAligned   Trend = "bearish-aligned" // MA5 < MA10 < MA20
	TrendMixed            Trend = "mixed"
	TrendInsufficientData Trend = "insufficient-data"
)

// VolumeTrend labels today's volume against the 5-bar average.
type VolumeTrend string

const (
	VolumeExpanding VolumeTrend = "expanding" // ratio > 1.5
	VolumeShrinking VolumeTrend = "shrinking" // ratio < 0.7
	VolumeFlat      VolumeTrend = "flat"
)

// CandlePattern is the fixed vocabulary of single/double-candle patterns
// the engine detects. The zero value means no pattern.
type CandlePattern string

const (
	PatternNone             CandlePattern = ""
	PatternDoji             CandlePattern = "doji"
	PatternDojiTop          CandlePattern = "doji-top"    // doji with dominant upper shadow
	PatternDojiBottom       CandlePattern = "doji-bottom" // doji with dominant lower shadow
	PatternHammerBull       CandlePattern = "hammer-bull"
	PatternHammerBear       CandlePattern = "hammer-bear"
	PatternInvertedHammer   CandlePattern = "inverted-hammer"
	PatternShootingStar     CandlePattern = "shooting-star"
	PatternBullishEngulfing CandlePattern = "bullish-engulfing"
	PatternBearishEngulfing CandlePattern = "bearish-engulfing"
	PatternBigBullCandle    CandlePattern = "big-bull-candle"
	PatternBigBearCandle    CandlePattern = "big-bear-candle"
)

// IndicatorSnapshot holds every indicator computed from a bar series.
// Pointer fields are nil when the series is too short for the window;
// values are never derived from partial windows.
type IndicatorSnapshot struct {
	// Moving averages
	MA5  *float64 `json:"ma5,omitempty"`
	MA10 *float64 `json:"ma10,omitempty"`
	MA20 *float64 `json:"ma20,omitempty"`
	MA60 *float64 `json:"ma60,omitempty"`

	// MACD (12/26/9)
	MACDDIF       *float64 `json:"macd_dif,omitempty"`
	MACDDEA       *float64 `json:"macd_dea,omitempty"`
	MACDHist      *float64 `json:"macd_hist,omitempty"`
	MACDCross     Cross    `json:"macd_cross,omitempty"`
	MACDCrossDays *int     `json:"macd_cross_days,omitempty"`

	// RSI (trailing-window mean form)
	RSI6  *float64 `json:"rsi6,omitempty"`
	RSI12 *float64 `json:"rsi12,omitempty"`
	RSI24 *float64 `json:"rsi24,omitempty"`

	// KDJ (9/3/3); J is unbounded
	KDJK     *float64 `json:"kdj_k,omitempty"`
	KDJD     *float64 `json:"kdj_d,omitempty"`
	KDJJ     *float64 `json:"kdj_j,omitempty"`
	KDJCross Cross    `json:"kdj_cross,omitempty"`

	// Bollinger (20, 2 std)
	BollUpper *float64 `json:"boll_upper,omitempty"`
	BollMid   *float64 `json:"boll_mid,omitempty"`
	BollLower *float64 `json:"boll_lower,omitempty"`
	BollWidth *float64 `json:"boll_width,omitempty"` // band width as % of mid

	// Volume
	VolumeMA5   *float64    `json:"volume_ma5,omitempty"`
	VolumeMA10  *float64    `json:"volume_ma10,omitempty"`
	VolumeRatio *float64    `json:"volume_ratio,omitempty"` // today / 5-bar MA
	VolumeTrend VolumeTrend `json:"volume_trend,omitempty"`

	// Percent change vs close 5/20 bars prior
	Change5D  *float64 `json:"change_5d,omitempty"`
	Change20D *float64 `json:"change_20d,omitempty"`

	// Amplitude (high-low)/low*100
	Amplitude     *float64 `json:"amplitude,omitempty"`
	AmplitudeAvg5 *float64 `json:"amplitude_avg5,omitempty"`

	// Support/resistance at 5/20/60-bar windows
	SupportS    *float64 `json:"support_s,omitempty"`
	SupportM    *float64 `json:"support_m,omitempty"`
	SupportL    *float64 `json:"support_l,omitempty"`
	ResistanceS *float64 `json:"resistance_s,omitempty"`
	ResistanceM *float64 `json:"resistance_m,omitempty"`
	ResistanceL *float64 `json:"resistance_l,omitempty"`

	// Legacy aliases for the 20-bar levels, kept for downstream templates.
	Support    *float64 `json:"support,omitempty"`
	Resistance *float64 `json:"resistance,omitempty"`

	Pattern CandlePattern `json:"kline_pattern,omitempty"`
}

// Params records the fixed windows the engine computes with. It rides along
// in every summary so prompt templates can state their assumptions.
type Params struct {
	MA                []int `json:"ma"`
	MACDFast          int   `json:"macd_fast"`
	MACDSlow          int   `json:"macd_slow"`
	MACDSignal        int   `json:"macd_signal"`
	RSIPeriods        []int `json:"rsi_periods"`
	KDJN              int   `json:"kdj_n"`
	KDJM1             int   `json:"kdj_m1"`
	KDJM2             int   `json:"kdj_m2"`
	BollPeriod        int   `json:"boll_period"`
	BollStd           int   `json:"boll_num_std"`
	SupportResistance []int `json:"support_resistance_windows"`
}

// Summary is the prompt-facing view of a snapshot: the raw indicators plus
// derived status labels and metadata about the series they were computed from.
type Summary struct {
	Timeframe  string `json:"timeframe"`
	ComputedAt string `json:"computed_at"` // ISO timestamp, UTC
	AsOf       string `json:"asof"`        // date of the last bar
	Params     Params `json:"params"`

	LastClose *float64 `json:"last_close,omitempty"`
	Recent5Up int      `json:"recent_5_up"`
	Trend     Trend    `json:"trend"`

	MACDStatus string `json:"macd_status,omitempty"`
	RSIStatus  string `json:"rsi_status,omitempty"`
	KDJStatus  string `json:"kdj_status,omitempty"`
	BollStatus string `json:"boll_status,omitempty"`

	IndicatorSnapshot
}
