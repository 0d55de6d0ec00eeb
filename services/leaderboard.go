package services

import (
	"fmt"
	"log"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeaderboardService materializes ranking_entries from user_stats. The
// snapshot is rebuilt on a schedule, so positions lag live XP by design.
type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// Rebuild recomputes the full ranking snapshot, ordered by XP descending.
// Usernames come from the profile mirror; users not yet synced keep an empty name.
func (s *LeaderboardService) Rebuild() error {
	var stats []models.UserStats
	if err := s.DB.Order("xp_total DESC, updated_at ASC").Find(&stats).Error; err != nil {
		return fmt.Errorf("failed to load user stats for ranking: %w", err)
	}

	var profiles []models.UserProfile
	if err := s.DB.Find(&profiles).Error; err != nil {
		return fmt.Errorf("failed to load profiles for ranking: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ExternalUserID] = p.Username
	}

	for i, st := range stats {
		entry := models.RankingEntry{
			ID:       uuid.NewString(),
			UserID:   st.UserID,
			Position: i + 1,
			XPTotal:  st.XPTotal,
			Level:    st.Level,
			Title:    st.Title,
			Username: names[st.UserID],
		}
		err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"position", "xp_total", "level", "title", "username", "updated_at",
			}),
		}).Create(&entry).Error
		if err != nil {
			return fmt.Errorf("failed to upsert ranking entry for %s: %w", st.UserID, err)
		}
	}

	log.Printf("🏆 [RANKING] Snapshot rebuilt: %d entries", len(stats))
	return nil
}

// GetTop returns the first `limit` ranking entries.
func (s *LeaderboardService) GetTop(limit int) ([]models.RankingEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []models.RankingEntry
	err := s.DB.Order("position ASC").Limit(limit).Find(&entries).Error
	return entries, err
}

// GetAroundUser returns the entries within ±window positions of the user.
func (s *LeaderboardService) GetAroundUser(userID string, window int) ([]models.RankingEntry, error) {
	if window <= 0 {
		window = 5
	}

	var me models.RankingEntry
	if err := s.DB.Where("user_id = ?", userID).First(&me).Error; err != nil {
		return nil, err
	}

	lower := me.Position - window
	if lower < 1 {
		lower = 1
	}
	upper := me.Position + window

	var entries []models.RankingEntry
	err := s.DB.Where("position BETWEEN ? AND ?", lower, upper).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}
