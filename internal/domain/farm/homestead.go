package farm

import (
	"time"

	"homestead/internal/domain/economy"
	"homestead/internal/domain/lifecycle"
)

type Player struct {
	ID        string
	Level     int
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Homestead is the unit of serializability: one player with the ledger,
// entities and quest claims they own.
type Homestead struct {
	Player   Player
	Ledger   economy.Ledger
	Registry Registry
	Claimed  map[string]time.Time
}

// NewHomestead provisions a level 1 player holding the starter resources.
func NewHomestead(playerID string, starter economy.Balance, now time.Time) Homestead {
	reg, _ := NewRegistry(nil)
	return Homestead{
		Player: Player{
			ID:        playerID,
			Level:     1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Ledger:   economy.NewLedger(starter),
		Registry: reg,
		Claimed:  map[string]time.Time{},
	}
}

// Restore rebuilds an aggregate from stored parts.
func Restore(player Player, balance economy.Balance, entities []lifecycle.Entity, claimed map[string]time.Time) (Homestead, error) {
	reg, err := NewRegistry(entities)
	if err != nil {
		return Homestead{}, err
	}
	if player.Level < 1 {
		player.Level = 1
	}
	h := Homestead{
		Player:   player,
		Ledger:   economy.NewLedger(balance),
		Registry: reg,
		Claimed:  map[string]time.Time{},
	}
	for k, v := range claimed {
		h.Claimed[k] = v
	}
	return h, nil
}

func (h Homestead) Experience() int {
	return h.Ledger.Get(economy.Experience)
}

func (h Homestead) Clone() Homestead {
	out := Homestead{
		Player:   h.Player,
		Ledger:   economy.NewLedger(h.Ledger.Balance()),
		Registry: h.Registry.clone(),
		Claimed:  make(map[string]time.Time, len(h.Claimed)),
	}
	for k, v := range h.Claimed {
		out.Claimed[k] = v
	}
	return out
}

// DomainEvent records one applied change for the replay feed.
type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventEntityPlaced        = "entity_placed"
	EventEntityCollected     = "entity_collected"
	EventCropHarvested       = "crop_harvested"
	EventAnimalFed           = "animal_fed"
	EventCropProtected       = "crop_protected"
	EventEntityRemoved       = "entity_removed"
	EventQuestClaimed        = "quest_claimed"
	EventMarketPurchase      = "market_purchase"
	EventCollectionExchanged = "collection_exchanged"
	EventLevelUp             = "level_up"
	EventTerritoryScattered  = "territory_scattered"
	EventClearingStarted     = "clearing_started"
	EventTerritoryCleared    = "territory_cleared"
	EventPestSpawned         = "pest_spawned"
	EventPestChased          = "pest_chased"
)

// Outcome is what one mutating action did to the aggregate.
type Outcome struct {
	Action      string                `json:"action"`
	Entity      *lifecycle.Entity     `json:"-"`
	Projection  *lifecycle.Projection `json:"-"`
	Delta       economy.Balance       `json:"delta"`
	Drops       []string              `json:"drops,omitempty"`
	LevelBefore int                   `json:"level_before"`
	LevelAfter  int                   `json:"level_after"`
	Events      []DomainEvent         `json:"events"`
}
