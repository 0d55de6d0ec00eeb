package models

import "time"

// Default daily targets, applied when a user has no stored config yet.
const (
	DefaultDailyXPGoal        = 50
	DefaultDailyQuestionsGoal = 10
)

// UserMeta holds per-user daily goal configuration.
// One row per user, created with defaults on first access.
type UserMeta struct {
	ID                 string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID             string `gorm:"uniqueIndex;not null" json:"user_id"`
	DailyXPGoal        int    `json:"daily_xp_goal" gorm:"default:50"`
	DailyQuestionsGoal int    `json:"daily_questions_goal" gorm:"default:10"`
	Active             bool   `json:"active" gorm:"default:true"`

	Timestamps
}

// DailyProgress accumulates a user's activity for one calendar day.
// One row per (user, day); past days are never mutated.
type DailyProgress struct {
	ID     string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string    `gorm:"not null;uniqueIndex:idx_daily_progress_user_date" json:"user_id"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_daily_progress_user_date" json:"date"`

	XPGained          int  `json:"xp_gained" gorm:"default:0"`
	QuestionsAnswered int  `json:"questions_answered" gorm:"default:0"`
	QuestionsCorrect  int  `json:"questions_correct" gorm:"default:0"`
	XPGoalMet         bool `json:"xp_goal_met" gorm:"default:false"`
	QuestionsGoalMet  bool `json:"questions_goal_met" gorm:"default:false"`

	Timestamps
}
