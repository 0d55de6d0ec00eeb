package services

import (
	"fmt"
	"log"
	"time"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// criterionSources maps each criterion type to the stat it reads. Comparison
// is always ">= CriterionValue"; unknown types are absent and so fail closed.
var criterionSources = map[string]func(stats *models.UserStats, diagnosisComplete bool) float64{
	models.CriterionQuestionsAnswered: func(s *models.UserStats, _ bool) float64 { return float64(s.QuestionsAnswered) },
	models.CriterionQuestionsCorrect:  func(s *models.UserStats, _ bool) float64 { return float64(s.QuestionsCorrect) },
	models.CriterionBattlesPlayed:     func(s *models.UserStats, _ bool) float64 { return float64(s.BattlesPlayed) },
	models.CriterionBattlesPerfect:    func(s *models.UserStats, _ bool) float64 { return float64(s.BattlesPerfect) },
	models.CriterionStreakCurrent:     func(s *models.UserStats, _ bool) float64 { return float64(s.StreakCurrent) },
	models.CriterionXPTotal:           func(s *models.UserStats, _ bool) float64 { return float64(s.XPTotal) },
	models.CriterionLevel:             func(s *models.UserStats, _ bool) float64 { return float64(s.Level) },
	models.CriterionDiagnosisComplete: func(_ *models.UserStats, diag bool) float64 {
		if diag {
			return 1
		}
		return 0
	},
}

func satisfies(def *models.AchievementDefinition, stats *models.UserStats, diagnosisComplete bool) bool {
	source, ok := criterionSources[def.CriterionType]
	if !ok {
		return false
	}
	return source(stats, diagnosisComplete) >= def.CriterionValue
}

// AchievementService scans the catalog against a stats snapshot and unlocks
// anything newly satisfied. Bonus XP goes back through the ledger's AddXP so
// level/streak stay consistent and an audit row is always written.
type AchievementService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewAchievementService(db *gorm.DB, progression *ProgressionService) *AchievementService {
	return &AchievementService{DB: db, Progression: progression}
}

// Evaluate returns the definitions newly unlocked for this snapshot, in
// catalog order. Already-unlocked achievements are never returned again.
func (s *AchievementService) Evaluate(userID string, stats *models.UserStats, diagnosisComplete bool) ([]models.AchievementDefinition, error) {
	var catalog []models.AchievementDefinition
	if err := s.DB.Where("active = ?", true).Order("created_at ASC").Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}

	var unlockedIDs []string
	if err := s.DB.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &unlockedIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load unlocked achievements for %s: %w", userID, err)
	}
	unlocked := make(map[string]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	var newlyUnlocked []models.AchievementDefinition
	for _, def := range catalog {
		if unlocked[def.ID] || !satisfies(&def, stats, diagnosisComplete) {
			continue
		}

		row := models.UserAchievement{
			ID:            uuid.NewString(),
			UserID:        userID,
			AchievementID: def.ID,
		}
		res := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return newlyUnlocked, fmt.Errorf("failed to unlock %s for %s: %w", def.Code, userID, res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent evaluation unlocked it first; not ours to report.
			continue
		}

		log.Printf("🎖️ [CONQUISTA] %s desbloqueou %q", userID, def.Title)

		if def.XPBonus > 0 {
			if _, err := s.Progression.AddXP(userID, def.XPBonus, fmt.Sprintf("Conquista: %s", def.Title)); err != nil {
				return newlyUnlocked, fmt.Errorf("unlocked %s but bonus XP grant failed: %w", def.Code, err)
			}
		}

		newlyUnlocked = append(newlyUnlocked, def)
	}

	return newlyUnlocked, nil
}

// GetUserAchievements returns the user's unlocked achievements joined with
// their catalog entries, newest first.
func (s *AchievementService) GetUserAchievements(userID string) ([]map[string]interface{}, error) {
	type unlockedRow struct {
		models.AchievementDefinition
		UnlockedAt time.Time `json:"unlocked_at"`
	}

	var rows []unlockedRow
	if err := s.DB.Model(&models.UserAchievement{}).
		Select("achievement_definitions.*, user_achievements.unlocked_at").
		Joins("JOIN achievement_definitions ON achievement_definitions.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.unlocked_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		result = append(result, map[string]interface{}{
			"id":          r.ID,
			"code":        r.Code,
			"title":       r.Title,
			"description": r.Description,
			"icon_url":    r.IconURL,
			"category":    r.Category,
			"xp_bonus":    r.XPBonus,
			"unlocked_at": r.UnlockedAt,
		})
	}
	return result, nil
}

// NewAchievementParams carries the fields the admin console can set when
// creating a catalog entry.
type NewAchievementParams struct {
	Code           string
	Title          string
	Description    string
	IconURL        string
	Category       string
	XPBonus        int
	CriterionType  string
	CriterionValue float64
}

// CreateDefinition adds a catalog entry. The criterion type must be one the
// evaluator understands; anything else would sit in the catalog forever unmet.
func (s *AchievementService) CreateDefinition(params NewAchievementParams) (*models.AchievementDefinition, error) {
	if _, ok := criterionSources[params.CriterionType]; !ok {
		return nil, fmt.Errorf("unknown criterion type %q", params.CriterionType)
	}
	if params.Code == "" || params.Title == "" {
		return nil, fmt.Errorf("achievement code and title are required")
	}

	def := models.AchievementDefinition{
		ID:             uuid.NewString(),
		Code:           params.Code,
		Title:          params.Title,
		Description:    params.Description,
		IconURL:        params.IconURL,
		Category:       params.Category,
		XPBonus:        params.XPBonus,
		CriterionType:  params.CriterionType,
		CriterionValue: params.CriterionValue,
		Active:         true,
	}
	if err := s.DB.Create(&def).Error; err != nil {
		return nil, fmt.Errorf("failed to create achievement %s: %w", def.Code, err)
	}
	return &def, nil
}

// SeedAchievementCatalog inserts the reference catalog, ignoring codes that
// already exist so operator edits survive restarts.
func SeedAchievementCatalog(db *gorm.DB) error {
	for _, def := range models.DefaultAchievementCatalog {
		def.ID = uuid.NewString()
		def.Active = true
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&def)
		if res.Error != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", def.Code, res.Error)
		}
	}
	return nil
}
