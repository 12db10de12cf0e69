package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"homestead/internal/domain/economy"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed catalog.schema.json
var schemaJSON string

const schemaURL = "https://homestead.local/schemas/catalog.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

type document struct {
	Buildings   []templateDoc   `yaml:"buildings"`
	Crops       []templateDoc   `yaml:"crops"`
	Animals     []templateDoc   `yaml:"animals"`
	Territory   []templateDoc   `yaml:"territory"`
	Pests       []templateDoc   `yaml:"pests"`
	Quests      []questDoc      `yaml:"quests"`
	Market      []marketDoc     `yaml:"market"`
	Collections []collectionDoc `yaml:"collections"`
	Levels      []levelDoc      `yaml:"levels"`
}

type templateDoc struct {
	ID              string             `yaml:"id"`
	Name            string             `yaml:"name"`
	Cost            map[string]int     `yaml:"cost"`
	Yield           map[string]int     `yaml:"yield"`
	FeedCost        map[string]int     `yaml:"feed_cost"`
	SellValue       map[string]int     `yaml:"sell_value"`
	BuildSeconds    int                `yaml:"build_seconds"`
	GrowSeconds     int                `yaml:"grow_seconds"`
	WitherSeconds   int                `yaml:"wither_seconds"`
	AdultSeconds    int                `yaml:"adult_seconds"`
	IntervalSeconds int                `yaml:"production_interval_seconds"`
	UnlockLevel     int                `yaml:"unlock_level"`
	Experience      int                `yaml:"experience"`
	CollectionDrops []string           `yaml:"collection_drops"`
	DropChance      float64            `yaml:"drop_chance"`
	Butterflies     bool               `yaml:"butterflies"`
	ClearCost       map[string]int     `yaml:"clear_cost"`
	ChaseCost       map[string]int     `yaml:"chase_cost"`
	ClearSeconds    int                `yaml:"clear_seconds"`
	PestChance      map[string]float64 `yaml:"pest_chance"`
}

type questDoc struct {
	ID            string         `yaml:"id"`
	Title         string         `yaml:"title"`
	RequiredKinds []string       `yaml:"required_kinds"`
	MinResources  map[string]int `yaml:"min_resources"`
	Reward        map[string]int `yaml:"reward"`
	LevelRequired int            `yaml:"level_required"`
}

type marketDoc struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Cost    map[string]int `yaml:"cost"`
	Rewards map[string]int `yaml:"rewards"`
}

type collectionDoc struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	ItemsNeeded map[string]int `yaml:"items_needed"`
	Rewards     map[string]int `yaml:"rewards"`
}

type levelDoc struct {
	Level              int `yaml:"level"`
	ExperienceRequired int `yaml:"experience_required"`
}

// LoadDefault parses the catalog bundled with the binary.
func LoadDefault() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Load reads a catalog file from disk. An empty path selects the bundled one.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return LoadDefault()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}
	return New(doc.definitions())
}

func validateSchema(raw []byte) error {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(schemaJSON))); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	if schemaErr != nil {
		return fmt.Errorf("compile catalog schema: %w", schemaErr)
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("catalog yaml: %w", err)
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("catalog yaml to json: %w", err)
	}
	var instance any
	if err := json.Unmarshal(asJSON, &instance); err != nil {
		return fmt.Errorf("catalog json: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}

func (d document) definitions() Definitions {
	var defs Definitions
	for _, t := range d.Buildings {
		defs.Templates = append(defs.Templates, t.template(FamilyBuilding))
	}
	for _, t := range d.Crops {
		defs.Templates = append(defs.Templates, t.template(FamilyCrop))
	}
	for _, t := range d.Animals {
		defs.Templates = append(defs.Templates, t.template(FamilyAnimal))
	}
	for _, t := range d.Pests {
		defs.Templates = append(defs.Templates, t.template(FamilyPest))
	}
	for _, t := range d.Territory {
		defs.Templates = append(defs.Templates, t.template(FamilyTerritory))
	}
	for _, q := range d.Quests {
		defs.Quests = append(defs.Quests, QuestDef{
			ID:            q.ID,
			Title:         q.Title,
			RequiredKinds: q.RequiredKinds,
			MinResources:  economy.FromStrings(q.MinResources),
			Reward:        economy.FromStrings(q.Reward),
			LevelRequired: q.LevelRequired,
		})
	}
	for _, m := range d.Market {
		defs.Market = append(defs.Market, MarketItem{
			ID:      m.ID,
			Name:    m.Name,
			Cost:    economy.FromStrings(m.Cost),
			Rewards: economy.FromStrings(m.Rewards),
		})
	}
	for _, c := range d.Collections {
		defs.Collections = append(defs.Collections, CollectionSet{
			ID:          c.ID,
			Name:        c.Name,
			ItemsNeeded: economy.FromStrings(c.ItemsNeeded),
			Rewards:     economy.FromStrings(c.Rewards),
		})
	}
	for _, l := range d.Levels {
		defs.Levels = append(defs.Levels, LevelThreshold{Level: l.Level, ExperienceRequired: l.ExperienceRequired})
	}
	return defs
}

func (t templateDoc) template(family Family) Template {
	clearCost := t.ClearCost
	if family == FamilyPest {
		clearCost = t.ChaseCost
	}
	return Template{
		ID:                 t.ID,
		Family:             family,
		Name:               t.Name,
		Cost:               economy.FromStrings(t.Cost),
		Yield:              economy.FromStrings(t.Yield),
		FeedCost:           economy.FromStrings(t.FeedCost),
		SellValue:          economy.FromStrings(t.SellValue),
		BuildDuration:      seconds(t.BuildSeconds),
		GrowDuration:       seconds(t.GrowSeconds),
		WitherDuration:     seconds(t.WitherSeconds),
		AdultAge:           seconds(t.AdultSeconds),
		ProductionInterval: seconds(t.IntervalSeconds),
		UnlockLevel:        t.UnlockLevel,
		Experience:         t.Experience,
		CollectionDrops:    t.CollectionDrops,
		DropChance:         t.DropChance,
		Butterflies:        t.Butterflies,
		ClearCost:          economy.FromStrings(clearCost),
		ClearDuration:      seconds(t.ClearSeconds),
		PestChance:         t.PestChance,
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
