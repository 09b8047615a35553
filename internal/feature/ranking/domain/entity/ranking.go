// Package entity defines the daily leaderboard rows.
package entity

import "time"

// Ranking kinds. Instrument rows rank every tracked asset; user rows rank
// each user by their best-performing asset.
const (
	RankTypeInstrument = "instrument"
	RankTypeUser       = "user"
)

// RankingEntry is one leaderboard row for one date. Rank and ChangeRate
// are nil when the baseline could not be resolved; such rows still appear
// in the leaderboard, after every ranked row.
type RankingEntry struct {
	ID            uint
	RankType      string
	Date          time.Time // date only, UTC midnight
	AssetID       uint
	UserID        uint
	Rank          *int
	ChangeRate    *float64 // percent, (price-baseline)/baseline*100
	Price         *float64
	BaselinePrice *float64
	CreatedAt     time.Time
}
