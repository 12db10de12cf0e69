package catalog

import (
	"time"

	"homestead/internal/domain/economy"
)

type Family string

const (
	FamilyBuilding Family = "building"
	FamilyCrop     Family = "crop"
	FamilyAnimal   Family = "animal"

	// FamilyTerritory is an obstacle the player clears; it is scattered on
	// the grid, never placed.
	FamilyTerritory Family = "territory"
	// FamilyPest appears when clearing an obstacle and is chased away.
	FamilyPest      Family = "pest"
)

// DefaultBuildingInterval applies to producing buildings that do not declare
// their own interval.
const DefaultBuildingInterval = 60 * time.Second

// Template is the static definition of a placeable kind.
type Template struct {
	ID     string `json:"id"`
	Family Family `json:"family"`
	Name   string `json:"name"`

	Cost      economy.Balance `json:"cost"`
	Yield     economy.Balance `json:"yield"`
	FeedCost  economy.Balance `json:"feed_cost,omitempty"`
	SellValue economy.Balance `json:"sell_value,omitempty"`

	BuildDuration      time.Duration `json:"build_duration"`
	GrowDuration       time.Duration `json:"grow_duration"`
	WitherDuration     time.Duration `json:"wither_duration"`
	AdultAge           time.Duration `json:"adult_age"`
	ProductionInterval time.Duration `json:"production_interval"`

	UnlockLevel int `json:"unlock_level"`
	Experience  int `json:"experience"`

	CollectionDrops []string `json:"collection_drops,omitempty"`
	DropChance      float64  `json:"drop_chance,omitempty"`
	Butterflies     bool     `json:"butterflies,omitempty"`

	// ClearCost is paid to start clearing an obstacle or to chase a pest.
	ClearCost     economy.Balance    `json:"clear_cost,omitempty"`
	ClearDuration time.Duration      `json:"clear_duration,omitempty"`
	// PestChance maps pest template ids to their spawn chance once the
	// obstacle is cleared.
	PestChance    map[string]float64 `json:"pest_chance,omitempty"`
}

// Placeable reports whether players may place the template themselves.
func (t Template) Placeable() bool {
	return t.Family != FamilyTerritory && t.Family != FamilyPest
}

// Produces reports whether the template has a recurring production cycle.
func (t Template) Produces() bool {
	if t.Family == FamilyCrop {
		return false
	}
	return t.ProductionInterval > 0 && !t.Yield.IsZero()
}

func (t Template) clone() Template {
	out := t
	out.Cost = t.Cost.Clone()
	out.Yield = t.Yield.Clone()
	out.FeedCost = t.FeedCost.Clone()
	out.SellValue = t.SellValue.Clone()
	out.CollectionDrops = append([]string(nil), t.CollectionDrops...)
	out.ClearCost = t.ClearCost.Clone()
	if t.PestChance != nil {
		out.PestChance = make(map[string]float64, len(t.PestChance))
		for k, v := range t.PestChance {
			out.PestChance[k] = v
		}
	}
	return out
}

// QuestDef is a quest requirement predicate plus its reward.
type QuestDef struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	RequiredKinds []string        `json:"required_kinds"`
	MinResources  economy.Balance `json:"min_resources"`
	Reward        economy.Balance `json:"reward"`
	LevelRequired int             `json:"level_required"`
}

func (q QuestDef) clone() QuestDef {
	out := q
	out.RequiredKinds = append([]string(nil), q.RequiredKinds...)
	out.MinResources = q.MinResources.Clone()
	out.Reward = q.Reward.Clone()
	return out
}

type MarketItem struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Cost    economy.Balance `json:"cost"`
	Rewards economy.Balance `json:"rewards"`
}

func (m MarketItem) clone() MarketItem {
	out := m
	out.Cost = m.Cost.Clone()
	out.Rewards = m.Rewards.Clone()
	return out
}

// CollectionSet is exchanged for rewards once every needed item is held.
type CollectionSet struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ItemsNeeded economy.Balance `json:"items_needed"`
	Rewards     economy.Balance `json:"rewards"`
}

func (c CollectionSet) clone() CollectionSet {
	out := c
	out.ItemsNeeded = c.ItemsNeeded.Clone()
	out.Rewards = c.Rewards.Clone()
	return out
}

type LevelThreshold struct {
	Level              int `json:"level"`
	ExperienceRequired int `json:"experience_required"`
}
