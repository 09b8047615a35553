// Package entity defines the provider-neutral row shape for market data.
package entity

import "time"

// Bar is the single normalized daily row every provider adapter maps its
// response into. Close is the only required field; everything else is nil
// when the provider did not supply it. Fundamentals (PE/PB/market cap/EPS)
// are present-day snapshot values on most providers, not historical ones.
type Bar struct {
	Date         time.Time
	Open         *float64
	Close        float64
	High         *float64
	Low          *float64
	Volume       *float64
	Turnover     *float64 // 成交額
	Amplitude    *float64 // 振幅 %
	ChangePct    *float64
	ChangeAmount *float64
	TurnoverRate *float64
	PERatio      *float64
	PBRatio      *float64
	MarketCap    *float64 // 億元
	EPSForecast  *float64
	Extra        map[string]any // provider columns outside the fixed shape
}

// Snapshot is the current fundamentals view one provider exposes for a
// code. Used when no stored reference record exists for ratio derivation.
type Snapshot struct {
	Price       float64
	PERatio     *float64
	PBRatio     *float64
	MarketCap   *float64
	EPSForecast *float64
}
