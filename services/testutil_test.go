package services

import (
	"fmt"
	"testing"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// cache=shared keeps the database alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.LevelDefinition{},
		&models.UserStats{},
		&models.XPHistoryEntry{},
		&models.UserMeta{},
		&models.DailyProgress{},
		&models.AchievementDefinition{},
		&models.UserAchievement{},
		&models.UserProfile{},
		&models.RankingEntry{},
	))
	return db
}

func newTestProgression(t *testing.T) *ProgressionService {
	t.Helper()
	return NewProgressionService(newTestDB(t), DefaultLevelTable())
}
