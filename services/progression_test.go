package services

import (
	"sync"
	"testing"
	"time"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateStats_LazyCreation(t *testing.T) {
	svc := newTestProgression(t)

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", stats.UserID)
	assert.Equal(t, 0, stats.XPTotal)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, "Iniciante", stats.Title)
	assert.Nil(t, stats.LastStudyDate)

	// A second call returns the same row, not a duplicate.
	again, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, stats.ID, again.ID)

	var count int64
	require.NoError(t, svc.DB.Model(&models.UserStats{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddXP_Accumulates(t *testing.T) {
	svc := newTestProgression(t)

	first, err := svc.AddXP("user-1", 10, "Questão correta (medio)")
	require.NoError(t, err)
	assert.Equal(t, 10, first.XPGained)
	assert.Equal(t, 10, first.XPTotal)

	second, err := svc.AddXP("user-1", 15, "Questão correta (dificil)")
	require.NoError(t, err)
	assert.Equal(t, 25, second.XPTotal)

	var entries []models.XPHistoryEntry
	require.NoError(t, svc.DB.Where("user_id = ?", "user-1").Find(&entries).Error)
	require.Len(t, entries, 2)

	sum := 0
	for _, e := range entries {
		sum += e.XPGained
	}
	assert.Equal(t, 25, sum, "history entries add up to the total")
}

func TestAddXP_RejectsNegative(t *testing.T) {
	svc := newTestProgression(t)

	_, err := svc.AddXP("user-1", -5, "ajuste")
	assert.ErrorIs(t, err, ErrNegativeXP)

	var count int64
	require.NoError(t, svc.DB.Model(&models.XPHistoryEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAddXP_LevelUp(t *testing.T) {
	svc := newTestProgression(t)

	result, err := svc.AddXP("user-1", 99, "bônus")
	require.NoError(t, err)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 1, result.Level.Level)

	result, err = svc.AddXP("user-1", 1, "bônus")
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.Level.Level)
	assert.Equal(t, "Aprendiz", result.Level.Title)

	// Title is persisted alongside the level.
	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, "Aprendiz", stats.Title)
}

func TestAddXP_StreakTransitions(t *testing.T) {
	svc := newTestProgression(t)

	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	result, err := svc.AddXP("user-1", 5, "Questão correta (facil)")
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakCurrent)

	// Same day: streak stays put.
	result, err = svc.AddXP("user-1", 5, "Questão correta (facil)")
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakCurrent)

	// Next day: consecutive.
	svc.now = func() time.Time { return base.AddDate(0, 0, 1) }
	result, err = svc.AddXP("user-1", 5, "Questão correta (facil)")
	require.NoError(t, err)
	assert.Equal(t, 2, result.StreakCurrent)
	assert.Equal(t, 2, result.StreakMax)

	// A week of silence: streak resets, best stays.
	svc.now = func() time.Time { return base.AddDate(0, 0, 8) }
	result, err = svc.AddXP("user-1", 5, "Questão correta (facil)")
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakCurrent)
	assert.Equal(t, 2, result.StreakMax)
}

func TestAddXP_ConcurrentGrants(t *testing.T) {
	svc := newTestProgression(t)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AddXP("user-1", 10, "Questão correta (medio)")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, workers*10, stats.XPTotal, "no grant may be lost")

	var count int64
	require.NoError(t, svc.DB.Model(&models.XPHistoryEntry{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.EqualValues(t, workers, count)
}

func TestRegisterQuestionAnswered_ConcurrentSubmissions(t *testing.T) {
	svc := newTestProgression(t)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RegisterQuestionAnswered("user-1", true, "facil")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, workers, stats.QuestionsAnswered, "no counter increment may be lost")
	assert.Equal(t, workers, stats.QuestionsCorrect)
	assert.Equal(t, workers*QuestionXPEasy, stats.XPTotal)
}

func TestRegisterBattle_ConcurrentSubmissions(t *testing.T) {
	svc := newTestProgression(t)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RegisterBattle("user-1", 3, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, workers, stats.BattlesPlayed, "no counter increment may be lost")
	assert.Equal(t, 0, stats.BattlesPerfect)
	assert.Equal(t, workers*3*BattleXPPerCorrect, stats.XPTotal)
}

func TestRegisterQuestionAnswered_Correct(t *testing.T) {
	svc := newTestProgression(t)

	result, err := svc.RegisterQuestionAnswered("user-1", true, "facil")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, QuestionXPEasy, result.XPGained)

	result, err = svc.RegisterQuestionAnswered("user-1", true, "medio")
	require.NoError(t, err)
	assert.Equal(t, QuestionXPMedium, result.XPGained)

	result, err = svc.RegisterQuestionAnswered("user-1", true, "dificil")
	require.NoError(t, err)
	assert.Equal(t, QuestionXPHard, result.XPGained)

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.QuestionsAnswered)
	assert.Equal(t, 3, stats.QuestionsCorrect)
	assert.Equal(t, 30, stats.XPTotal)
}

func TestRegisterQuestionAnswered_Incorrect(t *testing.T) {
	svc := newTestProgression(t)

	result, err := svc.RegisterQuestionAnswered("user-1", false, "dificil")
	require.NoError(t, err)
	assert.Nil(t, result, "wrong answers grant no XP")

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.QuestionsAnswered)
	assert.Equal(t, 0, stats.QuestionsCorrect)
	assert.Equal(t, 0, stats.XPTotal)
	assert.Nil(t, stats.LastStudyDate, "incorrect answers do not touch the streak")
}

func TestRegisterQuestionAnswered_UnknownDifficultyDefaultsToMedium(t *testing.T) {
	svc := newTestProgression(t)

	result, err := svc.RegisterQuestionAnswered("user-1", true, "impossivel")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, QuestionXPMedium, result.XPGained)
}

func TestRegisterBattle_Perfect(t *testing.T) {
	svc := newTestProgression(t)

	result, err := svc.RegisterBattle("user-1", 5, 5)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 5*BattleXPPerCorrect+BattlePerfectBonus, result.XPGained)

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BattlesPlayed)
	assert.Equal(t, 1, stats.BattlesPerfect)
}

func TestRegisterBattle_Partial(t *testing.T) {
	svc := newTestProgression(t)

	result, err := svc.RegisterBattle("user-1", 3, 5)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 60, result.XPGained)

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BattlesPlayed)
	assert.Equal(t, 0, stats.BattlesPerfect)
}

func TestRegisterBattle_ZeroScore(t *testing.T) {
	svc := newTestProgression(t)

	result, err := svc.RegisterBattle("user-1", 0, 5)
	require.NoError(t, err)
	assert.Nil(t, result)

	stats, err := svc.GetOrCreateStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BattlesPlayed, "the attempt still counts")
	assert.Equal(t, 0, stats.XPTotal)
}

func TestRegisterBattle_InvalidScore(t *testing.T) {
	svc := newTestProgression(t)

	_, err := svc.RegisterBattle("user-1", 6, 5)
	assert.Error(t, err)

	_, err = svc.RegisterBattle("user-1", -1, 5)
	assert.Error(t, err)

	_, err = svc.RegisterBattle("user-1", 0, 0)
	assert.Error(t, err)
}

func TestGetXPHistory_Pagination(t *testing.T) {
	svc := newTestProgression(t)

	for i := 0; i < 25; i++ {
		_, err := svc.AddXP("user-1", 5, "Questão correta (facil)")
		require.NoError(t, err)
	}

	page, err := svc.GetXPHistory("user-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 25, page["total_items"])
	assert.Equal(t, 3, page["total_pages"])
	assert.Len(t, page["entries"], 10)

	last, err := svc.GetXPHistory("user-1", 3, 10)
	require.NoError(t, err)
	assert.Len(t, last["entries"], 5)
}
