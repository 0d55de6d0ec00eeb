package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/xymathpro-hue/xy-cursos-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LevelInfo is the resolved position of an XP total within the level table.
type LevelInfo struct {
	Level           int    `json:"level"`
	Title           string `json:"title"`
	XPToNext        int    `json:"xp_to_next"`
	ProgressPercent int    `json:"progress_percent"`
	NextTitle       string `json:"next_title,omitempty"`
}

// LevelTable resolves XP totals to levels. Pure lookup, safe for concurrent use.
type LevelTable struct {
	defs []models.LevelDefinition
}

// NewLevelTable validates and builds a level table from definitions.
// Thresholds must be strictly increasing and start at 0.
func NewLevelTable(defs []models.LevelDefinition) (*LevelTable, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("level table requires at least one definition")
	}

	sorted := make([]models.LevelDefinition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].XPThreshold < sorted[j].XPThreshold
	})

	if sorted[0].XPThreshold != 0 {
		return nil, fmt.Errorf("first level threshold must be 0, got %d", sorted[0].XPThreshold)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].XPThreshold <= sorted[i-1].XPThreshold {
			return nil, fmt.Errorf("level thresholds must be strictly increasing (level %d)", sorted[i].Level)
		}
	}

	return &LevelTable{defs: sorted}, nil
}

// DefaultLevelTable builds the reference ten-tier table (0..5500 XP).
func DefaultLevelTable() *LevelTable {
	table, err := NewLevelTable(models.DefaultLevelTable)
	if err != nil {
		// The reference table is a package constant; it cannot be invalid.
		panic(err)
	}
	return table
}

// Resolve returns the level info for an XP total: the highest definition whose
// threshold <= xpTotal, plus distance and percent progress toward the next tier.
func (t *LevelTable) Resolve(xpTotal int) LevelInfo {
	if xpTotal < 0 {
		xpTotal = 0
	}

	current := t.defs[0]
	var next *models.LevelDefinition
	for i := range t.defs {
		if t.defs[i].XPThreshold <= xpTotal {
			current = t.defs[i]
			if i+1 < len(t.defs) {
				next = &t.defs[i+1]
			} else {
				next = nil
			}
		} else {
			break
		}
	}

	info := LevelInfo{
		Level: current.Level,
		Title: current.Title,
	}

	if next == nil {
		// Max level: nothing left to climb, never divide by zero.
		info.XPToNext = 0
		info.ProgressPercent = 100
		return info
	}

	info.XPToNext = next.XPThreshold - xpTotal
	info.NextTitle = next.Title
	span := next.XPThreshold - current.XPThreshold
	info.ProgressPercent = int(math.Round(100 * float64(xpTotal-current.XPThreshold) / float64(span)))
	return info
}

// MaxLevel returns the highest level in the table.
func (t *LevelTable) MaxLevel() int {
	return t.defs[len(t.defs)-1].Level
}

// SeedLevelTable writes the reference table to level_definitions so dashboards
// and support tooling can read the curve. Existing rows win over the seed.
func SeedLevelTable(db *gorm.DB) error {
	for _, def := range models.DefaultLevelTable {
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "level"}},
			DoNothing: true,
		}).Create(&def)
		if res.Error != nil {
			return fmt.Errorf("failed to seed level %d: %w", def.Level, res.Error)
		}
	}
	return nil
}
