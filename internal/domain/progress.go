package domain

import "time"

// Progress is a player's unlocked/completed record.
type Progress struct {
	CompletedLevels []int     `json:"completedLevels"`
	CurrentLevel    int       `json:"currentLevel"`
	LastPlayedAt    time.Time `json:"lastPlayedAt"`
}

// DefaultProgress is the record of a player who has never finished a level.
func DefaultProgress(now time.Time) Progress {
	return Progress{CompletedLevels: []int{}, CurrentLevel: 1, LastPlayedAt: now}
}

// MarkComplete records levelID once and advances CurrentLevel past it.
func (p *Progress) MarkComplete(levelID int, now time.Time) {
	if !p.IsCompleted(levelID) {
		p.CompletedLevels = append(p.CompletedLevels, levelID)
	}
	if levelID >= p.CurrentLevel {
		p.CurrentLevel = levelID + 1
	}
	p.LastPlayedAt = now
}

// IsCompleted reports whether levelID was solved before.
func (p Progress) IsCompleted(levelID int) bool {
	for _, id := range p.CompletedLevels {
		if id == levelID {
			return true
		}
	}
	return false
}

// IsUnlocked: level 1 always, any other level once its predecessor is completed.
func (p Progress) IsUnlocked(levelID int) bool {
	if levelID == 1 {
		return true
	}
	return p.IsCompleted(levelID - 1)
}
