package farm

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownTemplate  = errors.New("unknown template")
	ErrPositionOccupied = errors.New("position occupied")
	ErrLevelLocked      = errors.New("level locked")
)

type LevelLockedError struct {
	TemplateID string
	Required   int
	Level      int
}

func (e *LevelLockedError) Error() string {
	return fmt.Sprintf("%s: %s requires level %d, player is level %d", ErrLevelLocked, e.TemplateID, e.Required, e.Level)
}

func (e *LevelLockedError) Unwrap() error {
	return ErrLevelLocked
}
