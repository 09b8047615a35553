// Package entity defines the domain entities for the users feature.
package entity

import "time"

// User represents a participant on the leaderboard. The engine never
// authenticates users; it only needs identity and the active flag for
// ranking scope.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Nickname is the display name shown on the leaderboard.
	Nickname string `gorm:"size:64;not null"`

	// AvatarURL points at externally stored avatar media.
	AvatarURL string `gorm:"size:255"`

	// IsActive controls whether the user participates in rankings.
	IsActive bool `gorm:"not null;default:true"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time
}
