package farm

import (
	"fmt"
	"testing"
	"time"

	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

type fixedDice struct {
	roll float64
	pick int
}

func (d fixedDice) Float64() float64 { return d.roll }
func (d fixedDice) Intn(n int) int   { return d.pick % n }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Definitions{
		Templates: []catalog.Template{
			{
				ID:            "saloon",
				Family:        catalog.FamilyBuilding,
				Cost:          economy.Balance{economy.Gold: 100, economy.Wood: 50, economy.Stone: 30},
				Yield:         economy.Balance{economy.Gold: 10},
				BuildDuration: 30 * time.Second,
				UnlockLevel:   1,
			},
			{
				ID:                 "mine",
				Family:             catalog.FamilyBuilding,
				Cost:               economy.Balance{economy.Gold: 50},
				Yield:              economy.Balance{economy.Gold: 50},
				BuildDuration:      10 * time.Second,
				ProductionInterval: 120 * time.Second,
				UnlockLevel:        2,
			},
			{
				ID:              "wheat",
				Family:          catalog.FamilyCrop,
				Cost:            economy.Balance{economy.Gold: 10},
				Yield:           economy.Balance{economy.Food: 20, economy.Gold: 5},
				GrowDuration:    60 * time.Second,
				WitherDuration:  300 * time.Second,
				CollectionDrops: []string{"wheat_seed", "wheat_sheaf"},
				DropChance:      0.5,
			},
			{
				ID:             "sunflower",
				Family:         catalog.FamilyCrop,
				Cost:           economy.Balance{economy.Gold: 5},
				Yield:          economy.Balance{economy.Food: 5},
				GrowDuration:   30 * time.Second,
				WitherDuration: 60 * time.Second,
				Experience:     4,
				Butterflies:    true,
			},
			{
				ID:                 "chicken",
				Family:             catalog.FamilyAnimal,
				Cost:               economy.Balance{economy.Gold: 20},
				Yield:              economy.Balance{economy.Food: 5},
				FeedCost:           economy.Balance{economy.Food: 2},
				SellValue:          economy.Balance{economy.Gold: 15},
				AdultAge:           120 * time.Second,
				ProductionInterval: 60 * time.Second,
			},
			{
				ID:         "snake",
				Family:     catalog.FamilyPest,
				ClearCost:  economy.Balance{economy.Energy: 3},
				Yield:      economy.Balance{economy.Gold: 15},
				Experience: 8,
			},
			{
				ID:            "grass",
				Family:        catalog.FamilyTerritory,
				ClearCost:     economy.Balance{economy.Energy: 1},
				ClearDuration: 5 * time.Second,
				Yield:         economy.Balance{economy.Gold: 2},
				Experience:    1,
				PestChance:    map[string]float64{"snake": 0.1},
			},
		},
		Quests: []catalog.QuestDef{
			{
				ID:            "gold_rush",
				RequiredKinds: []string{"mine"},
				MinResources:  economy.Balance{economy.Gold: 500},
				Reward:        economy.Balance{economy.Gold: 200, economy.Experience: 350},
				LevelRequired: 2,
			},
		},
		Market: []catalog.MarketItem{
			{ID: "wood_pack", Cost: economy.Balance{economy.Gold: 50}, Rewards: economy.Balance{economy.Wood: 100}},
		},
		Collections: []catalog.CollectionSet{
			{
				ID:          "wheat",
				ItemsNeeded: economy.Balance{"wheat_seed": 1, "wheat_sheaf": 1},
				Rewards:     economy.Balance{economy.DroughtProtection: 1, economy.Experience: 20},
			},
		},
		Levels: []catalog.LevelThreshold{
			{Level: 1, ExperienceRequired: 0},
			{Level: 2, ExperienceRequired: 100},
			{Level: 3, ExperienceRequired: 300},
			{Level: 4, ExperienceRequired: 600},
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func testEngine(t *testing.T, dice Dice) *Engine {
	t.Helper()
	n := 0
	return NewEngine(testCatalog(t), dice).WithIDs(func() string {
		n++
		return fmt.Sprintf("ent-%d", n)
	})
}

func newPlayer(resources economy.Balance) Homestead {
	return NewHomestead("p1", resources, t0)
}
