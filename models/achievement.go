package models

import "time"

// Criterion types understood by the achievement evaluator.
// Anything else fails closed (never satisfied).
const (
	CriterionQuestionsAnswered = "questoes_respondidas"
	CriterionQuestionsCorrect  = "questoes_corretas"
	CriterionBattlesPlayed     = "batalhas_jogadas"
	CriterionBattlesPerfect    = "batalhas_perfeitas"
	CriterionStreakCurrent     = "streak_atual"
	CriterionXPTotal           = "xp_total"
	CriterionLevel             = "nivel"
	CriterionDiagnosisComplete = "diagnostico_completo"
)

// AchievementDefinition: static catalog entry (seeded from DefaultAchievementCatalog,
// extendable through the admin console).
type AchievementDefinition struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code           string    `gorm:"uniqueIndex;not null" json:"code"` // e.g., "primeira-questao"
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	IconURL        string    `gorm:"type:text" json:"icon_url"` // R2 URL to SVG/png
	Category       string    `gorm:"type:varchar(32)" json:"category"`
	XPBonus        int       `json:"xp_bonus" gorm:"default:0"`
	CriterionType  string    `gorm:"type:varchar(32);not null" json:"criterion_type"`
	CriterionValue float64   `json:"criterion_value" gorm:"default:0"`
	Active         bool      `json:"active" gorm:"default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement: unlocked instance. Existence = unlocked; the unique index
// is what keeps concurrent evaluations from double-unlocking.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// DefaultAchievementCatalog is the reference catalog seeded on startup.
var DefaultAchievementCatalog = []AchievementDefinition{
	{
		Code:           "primeira-questao",
		Title:          "Primeira Questão",
		Description:    "Respondeu sua primeira questão",
		Category:       "questoes",
		XPBonus:        10,
		CriterionType:  CriterionQuestionsAnswered,
		CriterionValue: 1,
	},
	{
		Code:           "na-mosca",
		Title:          "Na Mosca",
		Description:    "Acertou 10 questões",
		Category:       "questoes",
		XPBonus:        25,
		CriterionType:  CriterionQuestionsCorrect,
		CriterionValue: 10,
	},
	{
		Code:           "maratonista",
		Title:          "Maratonista",
		Description:    "Respondeu 100 questões",
		Category:       "questoes",
		XPBonus:        100,
		CriterionType:  CriterionQuestionsAnswered,
		CriterionValue: 100,
	},
	{
		Code:           "gladiador",
		Title:          "Gladiador",
		Description:    "Jogou sua primeira batalha",
		Category:       "batalhas",
		XPBonus:        20,
		CriterionType:  CriterionBattlesPlayed,
		CriterionValue: 1,
	},
	{
		Code:           "impecavel",
		Title:          "Impecável",
		Description:    "Gabaritou uma batalha",
		Category:       "batalhas",
		XPBonus:        50,
		CriterionType:  CriterionBattlesPerfect,
		CriterionValue: 1,
	},
	{
		Code:           "veterano-de-arena",
		Title:          "Veterano de Arena",
		Description:    "Jogou 10 batalhas",
		Category:       "batalhas",
		XPBonus:        75,
		CriterionType:  CriterionBattlesPlayed,
		CriterionValue: 10,
	},
	{
		Code:           "semana-de-fogo",
		Title:          "Semana de Fogo",
		Description:    "Estudou 7 dias seguidos",
		Category:       "sequencia",
		XPBonus:        100,
		CriterionType:  CriterionStreakCurrent,
		CriterionValue: 7,
	},
	{
		Code:           "vontade-de-ferro",
		Title:          "Vontade de Ferro",
		Description:    "Estudou 30 dias seguidos",
		Category:       "sequencia",
		XPBonus:        500,
		CriterionType:  CriterionStreakCurrent,
		CriterionValue: 30,
	},
	{
		Code:           "clube-dos-mil",
		Title:          "Clube dos Mil",
		Description:    "Acumulou 1000 XP",
		Category:       "progresso",
		XPBonus:        100,
		CriterionType:  CriterionXPTotal,
		CriterionValue: 1000,
	},
	{
		Code:           "competidor-nato",
		Title:          "Competidor Nato",
		Description:    "Alcançou o nível 5",
		Category:       "progresso",
		XPBonus:        50,
		CriterionType:  CriterionLevel,
		CriterionValue: 5,
	},
	{
		Code:           "lenda-viva",
		Title:          "Lenda Viva",
		Description:    "Alcançou o nível máximo",
		Category:       "progresso",
		XPBonus:        200,
		CriterionType:  CriterionLevel,
		CriterionValue: 10,
	},
	{
		Code:           "autoconhecimento",
		Title:          "Autoconhecimento",
		Description:    "Completou o diagnóstico inicial",
		Category:       "progresso",
		XPBonus:        30,
		CriterionType:  CriterionDiagnosisComplete,
		CriterionValue: 1,
	},
}
