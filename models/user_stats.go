package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStats tracks gamified progression for each user (denormalized for performance).
// Created lazily on the first XP-earning event; mutated only by the progression service.
type UserStats struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"` // links to account service

	// Core progression
	XPTotal int    `json:"xp_total" gorm:"default:0"`
	Level   int    `json:"level" gorm:"default:1"`
	Title   string `json:"title" gorm:"default:'Iniciante'"`

	// Streak (consecutive study days)
	StreakCurrent int        `json:"streak_current" gorm:"default:0"`
	StreakMax     int        `json:"streak_max" gorm:"default:0"`
	LastStudyDate *time.Time `json:"last_study_date,omitempty"`

	// Activity counters
	QuestionsAnswered int `json:"questions_answered" gorm:"default:0"`
	QuestionsCorrect  int `json:"questions_correct" gorm:"default:0"`
	BattlesPlayed     int `json:"battles_played" gorm:"default:0"`
	BattlesPerfect    int `json:"battles_perfect" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
