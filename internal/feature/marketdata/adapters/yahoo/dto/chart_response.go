// Package dto defines the raw response shape of the Yahoo chart API.
package dto

// ChartResponse is the envelope of /v8/finance/chart/{symbol}.
// Closes may contain null entries on half-days; those indexes are skipped.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ChartResult is one symbol's series.
type ChartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Timezone string `json:"timezone"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []QuoteBlock `json:"quote"`
	} `json:"indicators"`
}

// QuoteBlock holds parallel OHLCV arrays indexed by Timestamp.
type QuoteBlock struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}
