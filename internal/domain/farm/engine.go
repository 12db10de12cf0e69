package farm

import (
	"fmt"
	"time"

	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/leveling"
	"homestead/internal/domain/lifecycle"
	"homestead/internal/domain/quest"

	"github.com/google/uuid"
)

// Dice is the random source used for collection drops, pest spawns and
// territory scatter.
type Dice interface {
	Float64() float64
	Intn(n int) int
}

// Engine applies player actions to a Homestead. It holds only read-only
// configuration and is safe for concurrent use; callers serialize per player.
type Engine struct {
	catalog *catalog.Catalog
	levels  leveling.Table
	dice    Dice
	newID   func() string
}

func NewEngine(cat *catalog.Catalog, dice Dice) *Engine {
	return &Engine{
		catalog: cat,
		levels:  leveling.NewTable(cat.Levels()),
		dice:    dice,
		newID:   uuid.NewString,
	}
}

// WithIDs swaps the entity id generator.
func (e *Engine) WithIDs(next func() string) *Engine {
	cp := *e
	cp.newID = next
	return &cp
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) Levels() leveling.Table {
	return e.levels
}

func (e *Engine) Place(h *Homestead, templateID string, pos lifecycle.Position, now time.Time) (Outcome, error) {
	tpl, ok := e.catalog.Template(templateID)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	if !tpl.Placeable() {
		return Outcome{}, fmt.Errorf("%w: %s cannot be placed", lifecycle.ErrInvalidState, tpl.ID)
	}
	if h.Registry.Occupied(pos) {
		return Outcome{}, fmt.Errorf("%w at %s", ErrPositionOccupied, pos)
	}
	if h.Player.Level < tpl.UnlockLevel {
		return Outcome{}, &LevelLockedError{TemplateID: tpl.ID, Required: tpl.UnlockLevel, Level: h.Player.Level}
	}
	out := e.begin(h, "place")
	if err := h.Ledger.Debit(tpl.Cost); err != nil {
		return Outcome{}, err
	}
	ent := lifecycle.New(e.newID(), h.Player.ID, tpl, pos, now)
	if err := h.Registry.add(ent); err != nil {
		return Outcome{}, err
	}
	out.Delta = tpl.Cost.Negate()
	return e.finish(h, out, &ent, tpl, now, DomainEvent{
		Type:       EventEntityPlaced,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   ent.ID,
			"template_id": tpl.ID,
			"x":           pos.X,
			"y":           pos.Y,
			"cost":        tpl.Cost.Strings(),
		},
	}), nil
}

func (e *Engine) Collect(h *Homestead, entityID string, now time.Time) (Outcome, error) {
	ent, tpl, err := e.lookup(h, entityID)
	if err != nil {
		return Outcome{}, err
	}
	reward, err := lifecycle.Collect(&ent, tpl, now)
	if err != nil {
		return Outcome{}, err
	}
	if ent.Family == catalog.FamilyTerritory {
		return e.finishClearing(h, ent, tpl, reward, now)
	}
	out := e.begin(h, "collect")
	if ent.Family == catalog.FamilyAnimal {
		if drop, ok := e.roll(tpl); ok {
			reward[economy.Resource(drop)]++
			out.Drops = append(out.Drops, drop)
		}
	}
	out.Delta = e.credit(h, reward)
	h.Registry.put(ent)
	return e.finish(h, out, &ent, tpl, now, DomainEvent{
		Type:       EventEntityCollected,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   ent.ID,
			"template_id": tpl.ID,
			"yield":       out.Delta.Strings(),
		},
	}), nil
}

func (e *Engine) Harvest(h *Homestead, entityID string, now time.Time) (Outcome, error) {
	ent, tpl, err := e.lookup(h, entityID)
	if err != nil {
		return Outcome{}, err
	}
	reward, err := lifecycle.Harvest(&ent, tpl, now)
	if err != nil {
		return Outcome{}, err
	}
	out := e.begin(h, "harvest")
	if drop, ok := e.roll(tpl); ok {
		reward[economy.Resource(drop)]++
		out.Drops = append(out.Drops, drop)
	}
	if tpl.Butterflies {
		reward[economy.Butterflies]++
	}
	out.Delta = e.credit(h, reward)
	h.Registry.remove(ent.ID)
	return e.finish(h, out, nil, tpl, now, DomainEvent{
		Type:       EventCropHarvested,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   ent.ID,
			"template_id": tpl.ID,
			"yield":       out.Delta.Strings(),
			"drops":       out.Drops,
		},
	}), nil
}

func (e *Engine) Feed(h *Homestead, entityID string, now time.Time) (Outcome, error) {
	ent, tpl, err := e.lookup(h, entityID)
	if err != nil {
		return Outcome{}, err
	}
	if err := lifecycle.Feed(&ent, tpl, now); err != nil {
		return Outcome{}, err
	}
	out := e.begin(h, "feed")
	if err := h.Ledger.Debit(tpl.FeedCost); err != nil {
		return Outcome{}, err
	}
	out.Delta = tpl.FeedCost.Negate()
	h.Registry.put(ent)
	return e.finish(h, out, &ent, tpl, now, DomainEvent{
		Type:       EventAnimalFed,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id": ent.ID,
			"fed_until": ent.FedUntil,
		},
	}), nil
}

// Protect spends one drought protection to keep a crop from withering.
func (e *Engine) Protect(h *Homestead, entityID string, now time.Time) (Outcome, error) {
	ent, tpl, err := e.lookup(h, entityID)
	if err != nil {
		return Outcome{}, err
	}
	if err := lifecycle.Protect(&ent, tpl, now); err != nil {
		return Outcome{}, err
	}
	out := e.begin(h, "protect")
	cost := economy.Balance{economy.DroughtProtection: 1}
	if err := h.Ledger.Debit(cost); err != nil {
		return Outcome{}, err
	}
	out.Delta = cost.Negate()
	h.Registry.put(ent)
	return e.finish(h, out, &ent, tpl, now, DomainEvent{
		Type:       EventCropProtected,
		OccurredAt: now,
		Payload:    map[string]any{"entity_id": ent.ID},
	}), nil
}

// Remove deletes a withered crop, sells an adult animal or abandons an
// unfinished building. The placement cost is never refunded.
func (e *Engine) Remove(h *Homestead, entityID string, now time.Time) (Outcome, error) {
	ent, tpl, err := e.lookup(h, entityID)
	if err != nil {
		return Outcome{}, err
	}
	if err := lifecycle.CheckRemove(ent, tpl, now); err != nil {
		return Outcome{}, err
	}
	out := e.begin(h, "remove")
	if ent.Family == catalog.FamilyAnimal {
		out.Delta = e.credit(h, tpl.SellValue)
	}
	h.Registry.remove(ent.ID)
	return e.finish(h, out, nil, tpl, now, DomainEvent{
		Type:       EventEntityRemoved,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   ent.ID,
			"template_id": tpl.ID,
			"proceeds":    out.Delta.Strings(),
		},
	}), nil
}

func (e *Engine) ClaimQuest(h *Homestead, questID string, now time.Time) (Outcome, error) {
	def, ok := e.catalog.Quest(questID)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: quest %q", ErrNotFound, questID)
	}
	if err := quest.CheckClaim(def, e.Snapshot(*h, now)); err != nil {
		return Outcome{}, err
	}
	out := e.begin(h, "claim")
	out.Delta = e.credit(h, def.Reward)
	h.Claimed[def.ID] = now
	return e.finish(h, out, nil, catalog.Template{}, now, DomainEvent{
		Type:       EventQuestClaimed,
		OccurredAt: now,
		Payload: map[string]any{
			"quest_id": def.ID,
			"reward":   out.Delta.Strings(),
		},
	}), nil
}

func (e *Engine) Purchase(h *Homestead, itemID string, now time.Time) (Outcome, error) {
	item, ok := e.catalog.MarketItem(itemID)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: market item %q", ErrNotFound, itemID)
	}
	delta := item.Cost.Negate().Plus(item.Rewards)
	out := e.begin(h, "purchase")
	if err := e.apply(h, delta); err != nil {
		return Outcome{}, err
	}
	out.Delta = delta
	return e.finish(h, out, nil, catalog.Template{}, now, DomainEvent{
		Type:       EventMarketPurchase,
		OccurredAt: now,
		Payload: map[string]any{
			"item_id": item.ID,
			"delta":   delta.Strings(),
		},
	}), nil
}

// ExchangeCollection trades a complete set of collection items for its
// rewards.
func (e *Engine) ExchangeCollection(h *Homestead, setID string, now time.Time) (Outcome, error) {
	set, ok := e.catalog.Collection(setID)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: collection %q", ErrNotFound, setID)
	}
	if !h.Ledger.CanAfford(set.ItemsNeeded) {
		return Outcome{}, fmt.Errorf("collection %s incomplete: %w", set.ID, quest.ErrNotCompleted)
	}
	delta := set.ItemsNeeded.Negate().Plus(set.Rewards)
	out := e.begin(h, "exchange")
	if err := e.apply(h, delta); err != nil {
		return Outcome{}, err
	}
	out.Delta = delta
	return e.finish(h, out, nil, catalog.Template{}, now, DomainEvent{
		Type:       EventCollectionExchanged,
		OccurredAt: now,
		Payload: map[string]any{
			"collection_id": set.ID,
			"delta":         delta.Strings(),
		},
	}), nil
}

// Refresh stores projected statuses on every entity and returns how many
// changed. Reads never depend on it.
func (e *Engine) Refresh(h *Homestead, now time.Time) int {
	changed := 0
	for _, ent := range h.Registry.List() {
		tpl, ok := e.catalog.Template(ent.TemplateID)
		if !ok {
			continue
		}
		if lifecycle.Refresh(&ent, tpl, now) {
			h.Registry.put(ent)
			changed++
		}
	}
	return changed
}

type ProjectedEntity struct {
	Entity     lifecycle.Entity
	Projection lifecycle.Projection
}

func (e *Engine) Project(h Homestead, now time.Time) []ProjectedEntity {
	entities := h.Registry.List()
	out := make([]ProjectedEntity, 0, len(entities))
	for _, ent := range entities {
		tpl, ok := e.catalog.Template(ent.TemplateID)
		if !ok {
			out = append(out, ProjectedEntity{Entity: ent, Projection: lifecycle.Projection{Status: ent.Status}})
			continue
		}
		p := lifecycle.Project(ent, tpl, now)
		ent.Status = p.Status
		out = append(out, ProjectedEntity{Entity: ent, Projection: p})
	}
	return out
}

func (e *Engine) Snapshot(h Homestead, now time.Time) quest.Snapshot {
	reached := map[string]bool{}
	for _, pe := range e.Project(h, now) {
		if quest.Reached(pe.Projection.Status) {
			reached[pe.Entity.TemplateID] = true
		}
	}
	return quest.Snapshot{
		Level:     h.Player.Level,
		Resources: h.Ledger.Balance(),
		Reached:   reached,
		Claimed:   h.Claimed,
	}
}

func (e *Engine) QuestBoard(h Homestead, now time.Time) []quest.Status {
	return quest.Evaluate(e.catalog.Quests(), e.Snapshot(h, now))
}

func (e *Engine) lookup(h *Homestead, entityID string) (lifecycle.Entity, catalog.Template, error) {
	ent, ok := h.Registry.Get(entityID)
	if !ok {
		return lifecycle.Entity{}, catalog.Template{}, fmt.Errorf("%w: entity %q", ErrNotFound, entityID)
	}
	tpl, ok := e.catalog.Template(ent.TemplateID)
	if !ok {
		return lifecycle.Entity{}, catalog.Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, ent.TemplateID)
	}
	return ent, tpl, nil
}

func (e *Engine) roll(tpl catalog.Template) (string, bool) {
	if e.dice == nil || len(tpl.CollectionDrops) == 0 || tpl.DropChance <= 0 {
		return "", false
	}
	if e.dice.Float64() >= tpl.DropChance {
		return "", false
	}
	return tpl.CollectionDrops[e.dice.Intn(len(tpl.CollectionDrops))], true
}

// apply lands a signed delta and re-derives the level when experience moved.
func (e *Engine) apply(h *Homestead, delta economy.Balance) error {
	if err := h.Ledger.Apply(delta); err != nil {
		return err
	}
	if delta.Touches(economy.Experience) {
		h.Player.Level = e.levels.Next(h.Player.Level, h.Experience())
	}
	return nil
}

func (e *Engine) credit(h *Homestead, delta economy.Balance) economy.Balance {
	credited := h.Ledger.Credit(delta)
	if credited.Touches(economy.Experience) {
		h.Player.Level = e.levels.Next(h.Player.Level, h.Experience())
	}
	return credited
}

func (e *Engine) begin(h *Homestead, action string) Outcome {
	return Outcome{Action: action, LevelBefore: h.Player.Level}
}

func (e *Engine) finish(h *Homestead, out Outcome, ent *lifecycle.Entity, tpl catalog.Template, now time.Time, ev DomainEvent) Outcome {
	out.LevelAfter = h.Player.Level
	out.Events = append(out.Events, ev)
	if out.LevelAfter > out.LevelBefore {
		out.Events = append(out.Events, DomainEvent{
			Type:       EventLevelUp,
			OccurredAt: now,
			Payload: map[string]any{
				"from": out.LevelBefore,
				"to":   out.LevelAfter,
			},
		})
	}
	if ent != nil {
		p := lifecycle.Project(*ent, tpl, now)
		ent.Status = p.Status
		out.Entity = ent
		out.Projection = &p
	}
	h.Player.UpdatedAt = now
	return out
}
