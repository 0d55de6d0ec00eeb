package services

import (
	"testing"
	"time"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateMeta_Defaults(t *testing.T) {
	svc := NewDailyGoalService(newTestDB(t))

	meta, err := svc.GetOrCreateMeta("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDailyXPGoal, meta.DailyXPGoal)
	assert.Equal(t, models.DefaultDailyQuestionsGoal, meta.DailyQuestionsGoal)
	assert.True(t, meta.Active)

	again, err := svc.GetOrCreateMeta("user-1")
	require.NoError(t, err)
	assert.Equal(t, meta.ID, again.ID)
}

func TestRecordActivity_AccumulatesAndFlags(t *testing.T) {
	svc := NewDailyGoalService(newTestDB(t))

	require.NoError(t, svc.RecordActivity("user-1", 20, 2, 2))

	progress, err := svc.GetOrCreateTodayProgress("user-1")
	require.NoError(t, err)
	assert.Equal(t, 20, progress.XPGained)
	assert.Equal(t, 2, progress.QuestionsAnswered)
	assert.Equal(t, 2, progress.QuestionsCorrect)
	assert.False(t, progress.XPGoalMet)
	assert.False(t, progress.QuestionsGoalMet)

	// Cross the 50 XP default.
	require.NoError(t, svc.RecordActivity("user-1", 30, 3, 1))
	progress, err = svc.GetOrCreateTodayProgress("user-1")
	require.NoError(t, err)
	assert.Equal(t, 50, progress.XPGained)
	assert.True(t, progress.XPGoalMet)
	assert.False(t, progress.QuestionsGoalMet, "5 of 10 questions")

	// Cross the 10-question default.
	require.NoError(t, svc.RecordActivity("user-1", 0, 5, 0))
	progress, err = svc.GetOrCreateTodayProgress("user-1")
	require.NoError(t, err)
	assert.True(t, progress.QuestionsGoalMet)
}

func TestRecordActivity_SeparateDays(t *testing.T) {
	svc := NewDailyGoalService(newTestDB(t))

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	require.NoError(t, svc.RecordActivity("user-1", 60, 1, 1))

	svc.now = func() time.Time { return base.AddDate(0, 0, 1) }
	require.NoError(t, svc.RecordActivity("user-1", 10, 1, 1))

	progress, err := svc.GetOrCreateTodayProgress("user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, progress.XPGained, "each day gets its own accumulator")
	assert.False(t, progress.XPGoalMet)

	var count int64
	require.NoError(t, svc.DB.Model(&models.DailyProgress{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestUpdateGoal(t *testing.T) {
	svc := NewDailyGoalService(newTestDB(t))

	require.NoError(t, svc.UpdateGoal("user-1", 100, 20))

	meta, err := svc.GetOrCreateMeta("user-1")
	require.NoError(t, err)
	assert.Equal(t, 100, meta.DailyXPGoal)
	assert.Equal(t, 20, meta.DailyQuestionsGoal)

	assert.Error(t, svc.UpdateGoal("user-1", -1, 10))
	assert.Error(t, svc.UpdateGoal("user-1", 10, -1))
}

func TestUpdateGoal_NotRetroactive(t *testing.T) {
	svc := NewDailyGoalService(newTestDB(t))

	// Meet the default 50 XP goal, then raise the bar.
	require.NoError(t, svc.RecordActivity("user-1", 50, 1, 1))
	require.NoError(t, svc.UpdateGoal("user-1", 500, 10))

	progress, err := svc.GetOrCreateTodayProgress("user-1")
	require.NoError(t, err)
	assert.True(t, progress.XPGoalMet, "already-met flag is not recomputed")

	// The next activity evaluates against the new target.
	require.NoError(t, svc.RecordActivity("user-1", 10, 1, 1))
	progress, err = svc.GetOrCreateTodayProgress("user-1")
	require.NoError(t, err)
	assert.False(t, progress.XPGoalMet, "60 of 500")
}
