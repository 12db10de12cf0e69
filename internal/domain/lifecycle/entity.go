package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"homestead/internal/domain/catalog"
)

type Status string

const (
	StatusBuilding  Status = "building"
	StatusBuilt     Status = "built"
	StatusGrowing   Status = "growing"
	StatusReady     Status = "ready"
	StatusWithered  Status = "withered"
	StatusAdult     Status = "adult"
	StatusProducing Status = "producing"
	StatusActive    Status = "active"
	StatusClearing  Status = "clearing"
	StatusCleared   Status = "cleared"
)

var (
	ErrNotReady     = errors.New("entity not ready")
	ErrWithered     = errors.New("crop withered")
	ErrInvalidState = errors.New("invalid entity state")
	// ErrAlreadyCollected is a NotReady that was caused by a collection at
	// the same instant.
	ErrAlreadyCollected = fmt.Errorf("%w: already collected", ErrNotReady)
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Entity is one placed object. Status is the last projected value and is
// informational only; Project is authoritative.
type Entity struct {
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id"`
	TemplateID string         `json:"template_id"`
	Family     catalog.Family `json:"family"`
	Position   Position       `json:"position"`
	Status     Status         `json:"status"`

	CreatedAt   time.Time `json:"created_at"`
	LastEventAt time.Time `json:"last_event_at"`
	FedAt       time.Time `json:"fed_at"`
	FedUntil    time.Time `json:"fed_until"`
	Protected   bool      `json:"protected"`

	// ClearStartedAt is set once clearing of an obstacle begins.
	ClearStartedAt time.Time `json:"clear_started_at"`

	TimesFed       int `json:"times_fed"`
	TimesCollected int `json:"times_collected"`
}

// InitialStatus is the status a freshly placed entity of the family starts in.
func InitialStatus(f catalog.Family) Status {
	switch f {
	case catalog.FamilyBuilding:
		return StatusBuilding
	case catalog.FamilyTerritory, catalog.FamilyPest:
		return StatusActive
	default:
		return StatusGrowing
	}
}

// New creates an entity for tpl with both timestamps set to now.
func New(id, ownerID string, tpl catalog.Template, pos Position, now time.Time) Entity {
	return Entity{
		ID:          id,
		OwnerID:     ownerID,
		TemplateID:  tpl.ID,
		Family:      tpl.Family,
		Position:    pos,
		Status:      InitialStatus(tpl.Family),
		CreatedAt:   now,
		LastEventAt: now,
	}
}
