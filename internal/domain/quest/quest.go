package quest

import (
	"errors"
	"time"

	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/lifecycle"
)

var (
	ErrNotCompleted   = errors.New("quest not completed")
	ErrAlreadyClaimed = errors.New("quest already claimed")
	ErrLocked         = errors.New("quest not available at this level")
)

// Snapshot is the read-only view of a player a quest is judged against.
type Snapshot struct {
	Level     int
	Resources economy.Balance
	// Reached holds the template ids that have at least one entity whose
	// cycle is reached.
	Reached map[string]bool
	Claimed map[string]time.Time
}

// Reached reports whether an entity in status counts toward a required kind.
// Crops never count, ready or not.
func Reached(status lifecycle.Status) bool {
	switch status {
	case lifecycle.StatusBuilt, lifecycle.StatusAdult, lifecycle.StatusProducing:
		return true
	default:
		return false
	}
}

type Status struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	RequiredKinds []string        `json:"required_kinds"`
	MinResources  economy.Balance `json:"min_resources,omitempty"`
	Reward        economy.Balance `json:"reward"`
	LevelRequired int             `json:"level_required"`
	Completed     bool            `json:"completed"`
	Claimed       bool            `json:"claimed"`
	ClaimedAt     *time.Time      `json:"claimed_at,omitempty"`
	MissingKinds  []string        `json:"missing_kinds,omitempty"`
}

func Visible(def catalog.QuestDef, level int) bool {
	return level >= def.LevelRequired
}

// Completed is recomputed on every call; it is not latched.
func Completed(def catalog.QuestDef, snap Snapshot) bool {
	return len(missingKinds(def, snap)) == 0 && resourcesMet(def, snap)
}

// Evaluate returns the board of quests visible at the player's level.
func Evaluate(defs []catalog.QuestDef, snap Snapshot) []Status {
	out := make([]Status, 0, len(defs))
	for _, def := range defs {
		if !Visible(def, snap.Level) {
			continue
		}
		missing := missingKinds(def, snap)
		st := Status{
			ID:            def.ID,
			Title:         def.Title,
			RequiredKinds: def.RequiredKinds,
			MinResources:  def.MinResources,
			Reward:        def.Reward,
			LevelRequired: def.LevelRequired,
			Completed:     len(missing) == 0 && resourcesMet(def, snap),
			MissingKinds:  missing,
		}
		if at, ok := snap.Claimed[def.ID]; ok {
			claimedAt := at
			st.Claimed = true
			st.ClaimedAt = &claimedAt
		}
		out = append(out, st)
	}
	return out
}

// CheckClaim validates a claim. The claimed latch wins over everything else
// so a claimed quest stays rejected even after its requirements lapse.
func CheckClaim(def catalog.QuestDef, snap Snapshot) error {
	if _, ok := snap.Claimed[def.ID]; ok {
		return ErrAlreadyClaimed
	}
	if !Visible(def, snap.Level) {
		return ErrLocked
	}
	if !Completed(def, snap) {
		return ErrNotCompleted
	}
	return nil
}

func missingKinds(def catalog.QuestDef, snap Snapshot) []string {
	var missing []string
	for _, kind := range def.RequiredKinds {
		if !snap.Reached[kind] {
			missing = append(missing, kind)
		}
	}
	return missing
}

func resourcesMet(def catalog.QuestDef, snap Snapshot) bool {
	for k, v := range def.MinResources {
		if snap.Resources.Get(k) < v {
			return false
		}
	}
	return true
}
