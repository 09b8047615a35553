// Package entity defines the domain models for tracked assets and their
// daily market records.
package entity

import "time"

// Asset classes understood by the data engine. The provider chain is
// selected from this value together with the market tag.
const (
	TypeStock   = "stock"
	TypeFund    = "fund"
	TypeFutures = "futures"
	TypeForex   = "forex"
)

// Domestic market tags. Anything else (e.g. "US", "HK") is routed to the
// global quote provider only.
const (
	MarketShanghai = "SH"
	MarketShenzhen = "SZ"
)

// Asset is a single tracked instrument owned by one user.
type Asset struct {
	ID            uint
	UserID        uint
	AssetType     string // stock, fund, futures, forex
	Market        string // exchange/market tag (SH, SZ, US, HK, CFFEX, ...)
	Code          string // raw code as entered (SH601727, 300857.SZ, IF, ...)
	Name          string
	BaselinePrice *float64   // reference price for ranking; set lazily
	BaselineDate  *time.Time // date the baseline price belongs to
	StartDate     time.Time  // observation window start
	EndDate       time.Time  // observation window end
	IsPrimary     bool       // at most one primary asset per user
	CreatedAt     time.Time
}

// IsDomestic reports whether the asset trades on a domestic exchange and
// should use the domestic provider chain.
func (a Asset) IsDomestic() bool {
	return a.Market == MarketShanghai || a.Market == MarketShenzhen
}

// MarketRecord is the canonical daily bar for one asset. Exactly one record
// exists per (AssetID, Date). A record with a price but nil fundamentals is
// a valid, partially filled state.
type MarketRecord struct {
	ID           uint
	AssetID      uint
	Date         time.Time // date only, UTC midnight
	ClosePrice   float64
	Volume       *float64
	TurnoverRate *float64
	PERatio      *float64
	PBRatio      *float64
	MarketCap    *float64 // 億元
	EPSForecast  *float64
	Additional   map[string]any // provider-specific extras, stored as JSON
	CreatedAt    time.Time
}

// HasRatios reports whether the record carries at least one usable
// fundamental ratio. Zero values do not count: providers emit 0 for
// "unknown" as often as for a real ratio of zero.
func (r MarketRecord) HasRatios() bool {
	if r.PERatio != nil && *r.PERatio != 0 {
		return true
	}
	if r.PBRatio != nil && *r.PBRatio != 0 {
		return true
	}
	if r.MarketCap != nil && *r.MarketCap > 0 {
		return true
	}
	return false
}

// AdditionalKeyBorrowedFrom marks a record whose values were borrowed from
// an earlier settled bar because every provider failed for "today". The
// value is the ISO date the values came from.
const AdditionalKeyBorrowedFrom = "borrowed_from"

// IsTemporary reports whether the record is a borrowed placeholder rather
// than data a provider returned for its own date.
func (r MarketRecord) IsTemporary() bool {
	if r.Additional == nil {
		return false
	}
	_, ok := r.Additional[AdditionalKeyBorrowedFrom]
	return ok
}
