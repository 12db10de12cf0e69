package catalog

import (
	"errors"
	"fmt"
	"strings"

	"homestead/internal/domain/economy"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is read-only after construction and safe to share between
// goroutines without locking.
type Catalog struct {
	templates   map[string]Template
	order       []string
	quests      []QuestDef
	market      []MarketItem
	collections []CollectionSet
	levels      []LevelThreshold
}

type Definitions struct {
	Templates   []Template
	Quests      []QuestDef
	Market      []MarketItem
	Collections []CollectionSet
	Levels      []LevelThreshold
}

func New(defs Definitions) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]Template, len(defs.Templates))}
	for _, t := range defs.Templates {
		t.ID = strings.TrimSpace(t.ID)
		if err := validateTemplate(&t); err != nil {
			return nil, err
		}
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate template %q", ErrInvalidCatalog, t.ID)
		}
		c.templates[t.ID] = t.clone()
		c.order = append(c.order, t.ID)
	}
	for _, id := range c.order {
		t := c.templates[id]
		for pest, chance := range t.PestChance {
			if p, ok := c.templates[pest]; !ok || p.Family != FamilyPest {
				return nil, fmt.Errorf("%w: %s spawns unknown pest %q", ErrInvalidCatalog, t.ID, pest)
			}
			if chance < 0 || chance > 1 {
				return nil, fmt.Errorf("%w: %s pest chance outside [0,1]", ErrInvalidCatalog, t.ID)
			}
		}
	}

	seen := map[string]bool{}
	for _, q := range defs.Quests {
		if q.ID == "" || seen["quest:"+q.ID] {
			return nil, fmt.Errorf("%w: quest id %q empty or duplicated", ErrInvalidCatalog, q.ID)
		}
		seen["quest:"+q.ID] = true
		for _, kind := range q.RequiredKinds {
			if _, ok := c.templates[kind]; !ok {
				return nil, fmt.Errorf("%w: quest %s requires unknown kind %q", ErrInvalidCatalog, q.ID, kind)
			}
		}
		if q.LevelRequired < 1 {
			q.LevelRequired = 1
		}
		c.quests = append(c.quests, q.clone())
	}
	for _, m := range defs.Market {
		if m.ID == "" || seen["market:"+m.ID] {
			return nil, fmt.Errorf("%w: market item id %q empty or duplicated", ErrInvalidCatalog, m.ID)
		}
		seen["market:"+m.ID] = true
		if hasNegative(m.Cost) || hasNegative(m.Rewards) {
			return nil, fmt.Errorf("%w: market item %s has negative amounts", ErrInvalidCatalog, m.ID)
		}
		c.market = append(c.market, m.clone())
	}
	for _, s := range defs.Collections {
		if s.ID == "" || seen["collection:"+s.ID] {
			return nil, fmt.Errorf("%w: collection id %q empty or duplicated", ErrInvalidCatalog, s.ID)
		}
		seen["collection:"+s.ID] = true
		if s.ItemsNeeded.IsZero() {
			return nil, fmt.Errorf("%w: collection %s needs no items", ErrInvalidCatalog, s.ID)
		}
		c.collections = append(c.collections, s.clone())
	}

	if err := validateLevels(defs.Levels); err != nil {
		return nil, err
	}
	c.levels = append([]LevelThreshold(nil), defs.Levels...)
	return c, nil
}

func validateTemplate(t *Template) error {
	if t.ID == "" {
		return fmt.Errorf("%w: template without id", ErrInvalidCatalog)
	}
	if hasNegative(t.Cost) || hasNegative(t.Yield) || hasNegative(t.FeedCost) || hasNegative(t.SellValue) || hasNegative(t.ClearCost) {
		return fmt.Errorf("%w: template %s has negative amounts", ErrInvalidCatalog, t.ID)
	}
	if t.UnlockLevel < 1 {
		t.UnlockLevel = 1
	}
	switch t.Family {
	case FamilyBuilding:
		if t.BuildDuration < 0 {
			return fmt.Errorf("%w: building %s has negative build time", ErrInvalidCatalog, t.ID)
		}
		if t.ProductionInterval == 0 && !t.Yield.IsZero() {
			t.ProductionInterval = DefaultBuildingInterval
		}
	case FamilyCrop:
		if t.GrowDuration <= 0 || t.WitherDuration <= 0 {
			return fmt.Errorf("%w: crop %s needs positive grow and wither times", ErrInvalidCatalog, t.ID)
		}
	case FamilyAnimal:
		if t.AdultAge <= 0 || t.ProductionInterval < 0 {
			return fmt.Errorf("%w: animal %s needs a positive adult age", ErrInvalidCatalog, t.ID)
		}
	case FamilyTerritory:
		if t.ClearDuration < 0 {
			return fmt.Errorf("%w: territory %s has negative clear time", ErrInvalidCatalog, t.ID)
		}
	case FamilyPest:
		if len(t.PestChance) > 0 {
			return fmt.Errorf("%w: pest %s cannot spawn pests", ErrInvalidCatalog, t.ID)
		}
	default:
		return fmt.Errorf("%w: template %s has unknown family %q", ErrInvalidCatalog, t.ID, t.Family)
	}
	if t.DropChance < 0 || t.DropChance > 1 {
		return fmt.Errorf("%w: template %s drop chance outside [0,1]", ErrInvalidCatalog, t.ID)
	}
	return nil
}

func validateLevels(levels []LevelThreshold) error {
	if len(levels) == 0 {
		return fmt.Errorf("%w: level table is empty", ErrInvalidCatalog)
	}
	if levels[0].Level != 1 || levels[0].ExperienceRequired != 0 {
		return fmt.Errorf("%w: level table must start at (1, 0)", ErrInvalidCatalog)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur.Level <= prev.Level || cur.ExperienceRequired <= prev.ExperienceRequired {
			return fmt.Errorf("%w: level table not strictly increasing at level %d", ErrInvalidCatalog, cur.Level)
		}
	}
	return nil
}

func hasNegative(b economy.Balance) bool {
	for _, v := range b {
		if v < 0 {
			return true
		}
	}
	return false
}

func (c *Catalog) Template(id string) (Template, bool) {
	t, ok := c.templates[id]
	if !ok {
		return Template{}, false
	}
	return t.clone(), true
}

// Family returns the templates of one family in declaration order.
func (c *Catalog) Family(f Family) []Template {
	var out []Template
	for _, id := range c.order {
		if t := c.templates[id]; t.Family == f {
			out = append(out, t.clone())
		}
	}
	return out
}

// Templates returns every template in declaration order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id].clone())
	}
	return out
}

func (c *Catalog) Quest(id string) (QuestDef, bool) {
	for _, q := range c.quests {
		if q.ID == id {
			return q.clone(), true
		}
	}
	return QuestDef{}, false
}

func (c *Catalog) Quests() []QuestDef {
	out := make([]QuestDef, 0, len(c.quests))
	for _, q := range c.quests {
		out = append(out, q.clone())
	}
	return out
}

func (c *Catalog) MarketItem(id string) (MarketItem, bool) {
	for _, m := range c.market {
		if m.ID == id {
			return m.clone(), true
		}
	}
	return MarketItem{}, false
}

func (c *Catalog) Market() []MarketItem {
	out := make([]MarketItem, 0, len(c.market))
	for _, m := range c.market {
		out = append(out, m.clone())
	}
	return out
}

func (c *Catalog) Collection(id string) (CollectionSet, bool) {
	for _, s := range c.collections {
		if s.ID == id {
			return s.clone(), true
		}
	}
	return CollectionSet{}, false
}

func (c *Catalog) Collections() []CollectionSet {
	out := make([]CollectionSet, 0, len(c.collections))
	for _, s := range c.collections {
		out = append(out, s.clone())
	}
	return out
}

func (c *Catalog) Levels() []LevelThreshold {
	return append([]LevelThreshold(nil), c.levels...)
}
