package models

import "time"

// XPHistoryEntry is an append-only audit row, one per XP grant.
// Advisory only — the authoritative balance lives on UserStats.
type XPHistoryEntry struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	XPGained  int       `gorm:"not null" json:"xp_gained"`
	Reason    string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
