package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyGoalService tracks per-day XP/question counters against each user's
// configurable daily target. It reads the ledger's outputs but never writes
// UserStats itself.
type DailyGoalService struct {
	DB *gorm.DB

	userLocks sync.Map
	now       func() time.Time
}

func NewDailyGoalService(db *gorm.DB) *DailyGoalService {
	return &DailyGoalService{
		DB:  db,
		now: time.Now,
	}
}

func (s *DailyGoalService) lockUser(userID string) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetOrCreateMeta fetches the user's goal config, creating the default
// (50 XP / 10 questions per day) on first access.
func (s *DailyGoalService) GetOrCreateMeta(userID string) (*models.UserMeta, error) {
	var meta models.UserMeta
	err := s.DB.Where("user_id = ?", userID).First(&meta).Error
	if err == nil {
		return &meta, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	meta = models.UserMeta{
		ID:                 uuid.NewString(),
		UserID:             userID,
		DailyXPGoal:        models.DefaultDailyXPGoal,
		DailyQuestionsGoal: models.DefaultDailyQuestionsGoal,
		Active:             true,
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&meta)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.DB.Where("user_id = ?", userID).First(&meta).Error; err != nil {
			return nil, err
		}
	}
	return &meta, nil
}

// GetOrCreateTodayProgress returns today's accumulator row, creating a zeroed
// one if this is the user's first activity of the day.
func (s *DailyGoalService) GetOrCreateTodayProgress(userID string) (*models.DailyProgress, error) {
	today := startOfDay(s.now())

	var progress models.DailyProgress
	err := s.DB.Where("user_id = ? AND date = ?", userID, today).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress = models.DailyProgress{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   today,
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&progress)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.DB.Where("user_id = ? AND date = ?", userID, today).First(&progress).Error; err != nil {
			return nil, err
		}
	}
	return &progress, nil
}

// RecordActivity adds the deltas of one real activity to today's accumulators
// and refreshes the goal-met flags. Callers invoke it exactly once per
// activity; the tracker itself does not deduplicate.
func (s *DailyGoalService) RecordActivity(userID string, xpGained, questionsAnswered, questionsCorrect int) error {
	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	meta, err := s.GetOrCreateMeta(userID)
	if err != nil {
		return fmt.Errorf("failed to load daily goal config for %s: %w", userID, err)
	}

	progress, err := s.GetOrCreateTodayProgress(userID)
	if err != nil {
		return fmt.Errorf("failed to load today's progress for %s: %w", userID, err)
	}

	progress.XPGained += xpGained
	progress.QuestionsAnswered += questionsAnswered
	progress.QuestionsCorrect += questionsCorrect
	progress.XPGoalMet = progress.XPGained >= meta.DailyXPGoal
	progress.QuestionsGoalMet = progress.QuestionsAnswered >= meta.DailyQuestionsGoal

	if err := s.DB.Save(progress).Error; err != nil {
		return fmt.Errorf("failed to persist today's progress for %s: %w", userID, err)
	}
	return nil
}

// UpdateGoal overwrites the user's daily targets. Past DailyProgress rows keep
// the flags they were computed with; nothing is recomputed retroactively.
func (s *DailyGoalService) UpdateGoal(userID string, xpGoal, questionsGoal int) error {
	if xpGoal < 0 || questionsGoal < 0 {
		return fmt.Errorf("daily goals must not be negative (got xp=%d, questions=%d)", xpGoal, questionsGoal)
	}

	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	meta, err := s.GetOrCreateMeta(userID)
	if err != nil {
		return err
	}

	meta.DailyXPGoal = xpGoal
	meta.DailyQuestionsGoal = questionsGoal
	return s.DB.Save(meta).Error
}
