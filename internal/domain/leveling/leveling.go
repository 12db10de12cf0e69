package leveling

import "homestead/internal/domain/catalog"

// Table answers level questions for a validated, strictly increasing
// threshold list starting at (1, 0).
type Table struct {
	thresholds []catalog.LevelThreshold
}

func NewTable(thresholds []catalog.LevelThreshold) Table {
	return Table{thresholds: append([]catalog.LevelThreshold(nil), thresholds...)}
}

// LevelFor returns the highest level whose threshold is <= experience.
func (t Table) LevelFor(experience int) int {
	level := 1
	for _, th := range t.thresholds {
		if th.ExperienceRequired > experience {
			break
		}
		level = th.Level
	}
	return level
}

// Next derives the level after an experience change. Levels never go down.
func (t Table) Next(current, experience int) int {
	if derived := t.LevelFor(experience); derived > current {
		return derived
	}
	if current < 1 {
		return 1
	}
	return current
}

type Progress struct {
	Level           int  `json:"level"`
	Experience      int  `json:"experience"`
	CurrentLevelAt  int  `json:"current_level_at"`
	NextLevelAt     int  `json:"next_level_at,omitempty"`
	MaxLevel        bool `json:"max_level"`
	ProgressPercent int  `json:"progress_percent"`
}

// ProgressFor reports how far experience has moved toward the next threshold.
func (t Table) ProgressFor(experience int) Progress {
	p := Progress{Level: t.LevelFor(experience), Experience: experience}
	for i, th := range t.thresholds {
		if th.Level != p.Level {
			continue
		}
		p.CurrentLevelAt = th.ExperienceRequired
		if i+1 >= len(t.thresholds) {
			p.MaxLevel = true
			p.ProgressPercent = 100
			return p
		}
		p.NextLevelAt = t.thresholds[i+1].ExperienceRequired
		span := p.NextLevelAt - p.CurrentLevelAt
		p.ProgressPercent = (experience - p.CurrentLevelAt) * 100 / span
		return p
	}
	return p
}
