package models

// LevelDefinition maps a cumulative XP threshold to a level and its title.
// The table is ordered ascending by threshold; the threshold for level 1 is 0.
type LevelDefinition struct {
	Level       int    `gorm:"primaryKey" json:"level"`
	XPThreshold int    `gorm:"uniqueIndex;not null" json:"xp_threshold"`
	Title       string `gorm:"not null" json:"title"`
}

// DefaultLevelTable is the reference configuration: ten tiers from 0 to 5500 XP.
var DefaultLevelTable = []LevelDefinition{
	{Level: 1, XPThreshold: 0, Title: "Iniciante"},
	{Level: 2, XPThreshold: 100, Title: "Aprendiz"},
	{Level: 3, XPThreshold: 300, Title: "Estudante"},
	{Level: 4, XPThreshold: 600, Title: "Dedicado"},
	{Level: 5, XPThreshold: 1000, Title: "Competidor"},
	{Level: 6, XPThreshold: 1500, Title: "Avançado"},
	{Level: 7, XPThreshold: 2200, Title: "Especialista"},
	{Level: 8, XPThreshold: 3000, Title: "Mestre"},
	{Level: 9, XPThreshold: 4200, Title: "Grão-Mestre"},
	{Level: 10, XPThreshold: 5500, Title: "Lenda"},
}
