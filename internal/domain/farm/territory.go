package farm

import (
	"fmt"
	"sort"
	"time"

	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/lifecycle"
)

const (
	// GridSize bounds both axes of scattered territory.
	GridSize = 16
	// DefaultScatterCount is how many obstacles one scatter places.
	DefaultScatterCount = 20
	maxScatterCount     = GridSize * GridSize
)

// Scatter places up to count random obstacles on free cells of the grid.
// Without dice the cells fill in row order and the kinds rotate.
func (e *Engine) Scatter(h *Homestead, count int, now time.Time) (Outcome, error) {
	kinds := e.catalog.Family(catalog.FamilyTerritory)
	if len(kinds) == 0 {
		return Outcome{}, fmt.Errorf("%w: no territory templates", ErrNotFound)
	}
	if count <= 0 {
		count = DefaultScatterCount
	}
	count = min(count, maxScatterCount)

	var free []lifecycle.Position
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			pos := lifecycle.Position{X: x, Y: y}
			if !h.Registry.Occupied(pos) {
				free = append(free, pos)
			}
		}
	}
	if len(free) == 0 {
		return Outcome{}, fmt.Errorf("%w: grid is full", ErrPositionOccupied)
	}

	out := e.begin(h, "scatter")
	ids := make([]string, 0, count)
	for i := 0; i < count && i < len(free); i++ {
		tpl := kinds[i%len(kinds)]
		if e.dice != nil {
			j := i + e.dice.Intn(len(free)-i)
			free[i], free[j] = free[j], free[i]
			tpl = kinds[e.dice.Intn(len(kinds))]
		}
		ent := lifecycle.New(e.newID(), h.Player.ID, tpl, free[i], now)
		if err := h.Registry.add(ent); err != nil {
			return Outcome{}, err
		}
		ids = append(ids, ent.ID)
	}
	out.Delta = economy.Balance{}
	return e.finish(h, out, nil, catalog.Template{}, now, DomainEvent{
		Type:       EventTerritoryScattered,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_ids": ids,
			"count":      len(ids),
		},
	}), nil
}

// Clear pays the clear cost and starts the clearing timer of an obstacle.
func (e *Engine) Clear(h *Homestead, entityID string, now time.Time) (Outcome, error) {
	ent, tpl, err := e.lookup(h, entityID)
	if err != nil {
		return Outcome{}, err
	}
	if err := lifecycle.StartClearing(&ent, tpl, now); err != nil {
		return Outcome{}, err
	}
	out := e.begin(h, "clear")
	if err := h.Ledger.Debit(tpl.ClearCost); err != nil {
		return Outcome{}, err
	}
	out.Delta = tpl.ClearCost.Negate()
	h.Registry.put(ent)
	return e.finish(h, out, &ent, tpl, now, DomainEvent{
		Type:       EventClearingStarted,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   ent.ID,
			"template_id": tpl.ID,
			"cost":        tpl.ClearCost.Strings(),
		},
	}), nil
}

// Chase pays the chase cost, credits the pest's reward and frees its cell.
func (e *Engine) Chase(h *Homestead, entityID string, now time.Time) (Outcome, error) {
	ent, tpl, err := e.lookup(h, entityID)
	if err != nil {
		return Outcome{}, err
	}
	reward, err := lifecycle.Chase(&ent, tpl)
	if err != nil {
		return Outcome{}, err
	}
	out := e.begin(h, "chase")
	if err := h.Ledger.Debit(tpl.ClearCost); err != nil {
		return Outcome{}, err
	}
	out.Delta = tpl.ClearCost.Negate().Plus(e.credit(h, reward))
	h.Registry.remove(ent.ID)
	return e.finish(h, out, nil, tpl, now, DomainEvent{
		Type:       EventPestChased,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   ent.ID,
			"template_id": tpl.ID,
			"delta":       out.Delta.Strings(),
		},
	}), nil
}

// finishClearing credits a cleared obstacle, removes it and may leave a pest
// on the freed cell. The spawned pest, if any, is the outcome's entity.
func (e *Engine) finishClearing(h *Homestead, ent lifecycle.Entity, tpl catalog.Template, reward economy.Balance, now time.Time) (Outcome, error) {
	out := e.begin(h, "collect")
	out.Delta = e.credit(h, reward)
	h.Registry.remove(ent.ID)

	cleared := DomainEvent{
		Type:       EventTerritoryCleared,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   ent.ID,
			"template_id": tpl.ID,
			"yield":       out.Delta.Strings(),
		},
	}
	pestTpl, ok := e.rollPest(tpl)
	if !ok {
		return e.finish(h, out, nil, tpl, now, cleared), nil
	}
	pest := lifecycle.New(e.newID(), h.Player.ID, pestTpl, ent.Position, now)
	if err := h.Registry.add(pest); err != nil {
		return Outcome{}, err
	}
	out = e.finish(h, out, &pest, pestTpl, now, cleared)
	out.Events = append(out.Events, DomainEvent{
		Type:       EventPestSpawned,
		OccurredAt: now,
		Payload: map[string]any{
			"entity_id":   pest.ID,
			"template_id": pestTpl.ID,
			"x":           pest.Position.X,
			"y":           pest.Position.Y,
		},
	})
	return out, nil
}

// rollPest rolls each pest chance in id order and returns the first hit.
func (e *Engine) rollPest(tpl catalog.Template) (catalog.Template, bool) {
	if e.dice == nil || len(tpl.PestChance) == 0 {
		return catalog.Template{}, false
	}
	ids := make([]string, 0, len(tpl.PestChance))
	for id := range tpl.PestChance {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if e.dice.Float64() >= tpl.PestChance[id] {
			continue
		}
		if pest, ok := e.catalog.Template(id); ok {
			return pest, true
		}
	}
	return catalog.Template{}, false
}
