package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XP granted per correct question by difficulty.
const (
	QuestionXPEasy   = 5
	QuestionXPMedium = 10 // default when difficulty is unknown/unspecified
	QuestionXPHard   = 15

	BattleXPPerCorrect = 20
	BattlePerfectBonus = 50
)

// ErrNegativeXP is returned when a caller tries to apply a negative delta.
// The ledger is additive-only; corrections go through support tooling, not here.
var ErrNegativeXP = errors.New("xp amount must not be negative")

// XPResult describes what a single XP grant did.
type XPResult struct {
	XPGained      int       `json:"xp_gained"`
	XPTotal       int       `json:"xp_total"`
	Level         LevelInfo `json:"level"`
	StreakCurrent int       `json:"streak_current"`
	StreakMax     int       `json:"streak_max"`
	LeveledUp     bool      `json:"leveled_up"`
}

// ProgressionService is the XP ledger: it owns every mutation of UserStats and
// the append-only XP history. Mutations for the same user are serialized by a
// per-user mutex so rapid submissions never lose an increment.
type ProgressionService struct {
	DB     *gorm.DB
	Levels *LevelTable

	userLocks sync.Map // userID → *sync.Mutex
	now       func() time.Time
}

func NewProgressionService(db *gorm.DB, levels *LevelTable) *ProgressionService {
	return &ProgressionService{
		DB:     db,
		Levels: levels,
		now:    time.Now,
	}
}

func (s *ProgressionService) lockUser(userID string) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetOrCreateStats fetches a user's stats row, creating a zeroed one on first
// access. Idempotent; a concurrent create loses the insert race but reads the
// winner's row instead of producing a duplicate.
func (s *ProgressionService) GetOrCreateStats(userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.DB.Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats = models.UserStats{
		ID:     uuid.NewString(),
		UserID: userID,
		Level:  1,
		Title:  s.Levels.Resolve(0).Title,
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&stats)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race; fetch whoever won.
		if err := s.DB.Where("user_id = ?", userID).First(&stats).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// AddXP applies a delta to the user's total, recomputes level and streak, and
// appends one history entry. The stats update and the history insert reflect
// the same snapshot; a failed history insert surfaces the error but the stats
// change stands (history is audit-only, not authoritative for balance).
func (s *ProgressionService) AddXP(userID string, amount int, reason string) (*XPResult, error) {
	if amount < 0 {
		return nil, ErrNegativeXP
	}

	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	stats, err := s.GetOrCreateStats(userID)
	if err != nil {
		return nil, err
	}

	prevLevel := stats.Level
	today := startOfDay(s.now())

	stats.XPTotal += amount
	info := s.Levels.Resolve(stats.XPTotal)
	stats.Level = info.Level
	stats.Title = info.Title
	stats.StreakCurrent, stats.StreakMax = NextStreak(stats.LastStudyDate, today, stats.StreakCurrent, stats.StreakMax)
	stats.LastStudyDate = &today

	// Write only the columns the ledger owns. The activity counters move via
	// atomic increments outside this lock; a full-row save would overwrite
	// any increment that landed after the read above.
	updates := map[string]interface{}{
		"xp_total":        stats.XPTotal,
		"level":           stats.Level,
		"title":           stats.Title,
		"streak_current":  stats.StreakCurrent,
		"streak_max":      stats.StreakMax,
		"last_study_date": stats.LastStudyDate,
	}
	if err := s.DB.Model(&models.UserStats{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to persist stats for %s: %w", userID, err)
	}

	entry := models.XPHistoryEntry{
		ID:       uuid.NewString(),
		UserID:   userID,
		XPGained: amount,
		Reason:   reason,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("stats updated but history insert failed for %s: %w", userID, err)
	}

	result := &XPResult{
		XPGained:      amount,
		XPTotal:       stats.XPTotal,
		Level:         info,
		StreakCurrent: stats.StreakCurrent,
		StreakMax:     stats.StreakMax,
		LeveledUp:     info.Level > prevLevel,
	}

	log.Printf("🎮 [XP] %s +%d → total=%d, nível=%d, sequência=%d (motivo: %s)",
		userID, amount, stats.XPTotal, stats.Level, stats.StreakCurrent, reason)

	if result.LeveledUp {
		log.Printf("🆙 [XP] %s subiu para o nível %d (%s)", userID, info.Level, info.Title)
	}

	return result, nil
}

// RegisterQuestionAnswered converts an answered question into an XP grant.
// Counters move unconditionally (atomic storage-level increments); XP is
// granted only for correct answers. Returns nil when no XP was granted.
func (s *ProgressionService) RegisterQuestionAnswered(userID string, correct bool, difficulty string) (*XPResult, error) {
	if _, err := s.GetOrCreateStats(userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"questions_answered": gorm.Expr("questions_answered + 1"),
	}
	if correct {
		updates["questions_correct"] = gorm.Expr("questions_correct + 1")
	}
	if err := s.DB.Model(&models.UserStats{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update question counters for %s: %w", userID, err)
	}

	if !correct {
		return nil, nil
	}

	var delta int
	switch difficulty {
	case "facil":
		delta = QuestionXPEasy
	case "dificil":
		delta = QuestionXPHard
	default:
		delta = QuestionXPMedium
		difficulty = "medio"
	}

	return s.AddXP(userID, delta, fmt.Sprintf("Questão correta (%s)", difficulty))
}

// RegisterBattle converts a finished timed quiz into an XP grant: 20 XP per
// correct answer plus a flat 50 for a perfect run. Counters move even when the
// score is zero. Returns nil when no XP was granted.
func (s *ProgressionService) RegisterBattle(userID string, correctCount, totalCount int) (*XPResult, error) {
	if totalCount <= 0 || correctCount < 0 || correctCount > totalCount {
		return nil, fmt.Errorf("invalid battle score %d/%d", correctCount, totalCount)
	}

	if _, err := s.GetOrCreateStats(userID); err != nil {
		return nil, err
	}

	perfect := correctCount == totalCount

	updates := map[string]interface{}{
		"battles_played": gorm.Expr("battles_played + 1"),
	}
	if perfect {
		updates["battles_perfect"] = gorm.Expr("battles_perfect + 1")
	}
	if err := s.DB.Model(&models.UserStats{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update battle counters for %s: %w", userID, err)
	}

	delta := correctCount * BattleXPPerCorrect
	reason := fmt.Sprintf("Batalha: %d/%d", correctCount, totalCount)
	if perfect {
		delta += BattlePerfectBonus
		reason = fmt.Sprintf("Batalha perfeita: %d/%d", correctCount, totalCount)
	}

	if delta == 0 {
		return nil, nil
	}
	return s.AddXP(userID, delta, reason)
}

// GetXPHistory returns a page of the user's XP audit trail, newest first.
func (s *ProgressionService) GetXPHistory(userID string, page, size int) (map[string]interface{}, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var total int64
	if err := s.DB.Model(&models.XPHistoryEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.XPHistoryEntry
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return map[string]interface{}{
		"entries":     entries,
		"page":        page,
		"size":        size,
		"total_items": total,
		"total_pages": totalPages,
	}, nil
}
