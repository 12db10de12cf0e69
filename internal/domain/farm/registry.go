package farm

import (
	"fmt"
	"sort"

	"homestead/internal/domain/lifecycle"
)

// Registry holds one owner's live entities, indexed by id and by position.
type Registry struct {
	byID  map[string]lifecycle.Entity
	byPos map[lifecycle.Position]string
}

func NewRegistry(entities []lifecycle.Entity) (Registry, error) {
	r := Registry{
		byID:  make(map[string]lifecycle.Entity, len(entities)),
		byPos: make(map[lifecycle.Position]string, len(entities)),
	}
	for _, e := range entities {
		if err := r.add(e); err != nil {
			return Registry{}, err
		}
	}
	return r, nil
}

func (r Registry) Get(id string) (lifecycle.Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// List returns entities in placement order.
func (r Registry) List() []lifecycle.Entity {
	out := make([]lifecycle.Entity, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r Registry) Len() int {
	return len(r.byID)
}

func (r Registry) Occupied(pos lifecycle.Position) bool {
	_, ok := r.byPos[pos]
	return ok
}

func (r *Registry) add(e lifecycle.Entity) error {
	if r.byID == nil {
		r.byID = map[string]lifecycle.Entity{}
		r.byPos = map[lifecycle.Position]string{}
	}
	if _, ok := r.byPos[e.Position]; ok {
		return fmt.Errorf("%w at %s", ErrPositionOccupied, e.Position)
	}
	if _, ok := r.byID[e.ID]; ok {
		return fmt.Errorf("duplicate entity id %q", e.ID)
	}
	r.byID[e.ID] = e
	r.byPos[e.Position] = e.ID
	return nil
}

// put replaces an existing entity in place. Position never changes.
func (r *Registry) put(e lifecycle.Entity) {
	r.byID[e.ID] = e
}

func (r *Registry) remove(id string) {
	e, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byPos, e.Position)
	delete(r.byID, id)
}

func (r Registry) clone() Registry {
	out := Registry{
		byID:  make(map[string]lifecycle.Entity, len(r.byID)),
		byPos: make(map[lifecycle.Position]string, len(r.byPos)),
	}
	for k, v := range r.byID {
		out.byID[k] = v
	}
	for k, v := range r.byPos {
		out.byPos[k] = v
	}
	return out
}
