package models

import "time"

// RankingEntry is a materialized leaderboard row, rebuilt periodically by the
// ranking scheduler from user_stats. Eventually consistent by design.
type RankingEntry struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Position  int       `gorm:"index;not null" json:"position"`
	XPTotal   int       `gorm:"not null" json:"xp_total"`
	Level     int       `gorm:"not null" json:"level"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
