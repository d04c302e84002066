package program

import (
	"errors"
	"strings"
	"time"
)

// Level constants
const (
	LevelFoundation   = "foundation"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// ValidLevels contains all valid level values.
var ValidLevels = []string{LevelFoundation, LevelIntermediate, LevelAdvanced}

// Domain errors
var (
	ErrEmptyName    = errors.New("program name cannot be empty")
	ErrInvalidLevel = errors.New("level must be one of: foundation, intermediate, advanced")
	ErrBadDuration  = errors.New("duration must be between 1 and 52 weeks")
)

// Program is a fitness program that participants are assigned to.
// Description is markdown and rendered by the web layer.
type Program struct {
	ID            string
	Name          string
	Description   string
	Level         string
	DurationWeeks int
	CreatedBy     string // account ID of the admin who created it
	CreatedAt     time.Time
}

// Validate checks if the Program has valid data.
// PRE: Program struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !isValidLevel(p.Level) {
		return ErrInvalidLevel
	}
	if p.DurationWeeks < 1 || p.DurationWeeks > 52 {
		return ErrBadDuration
	}
	return nil
}

func isValidLevel(level string) bool {
	for _, l := range ValidLevels {
		if l == level {
			return true
		}
	}
	return false
}
