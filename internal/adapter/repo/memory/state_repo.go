package memory

import (
	"context"
	"sort"

	"homestead/internal/app/ports"
	"homestead/internal/domain/farm"
)

type FarmStateRepo struct {
	store *Store
}

func NewFarmStateRepo(store *Store) FarmStateRepo {
	return FarmStateRepo{store: store}
}

func (r FarmStateRepo) GetByPlayerID(ctx context.Context, playerID string) (farm.Homestead, error) {
	var (
		h  farm.Homestead
		ok bool
	)
	r.store.read(ctx, func() {
		h, ok = r.store.players[playerID]
		if ok {
			h = h.Clone()
		}
	})
	if !ok {
		return farm.Homestead{}, ports.ErrNotFound
	}
	return h, nil
}

func (r FarmStateRepo) Create(ctx context.Context, h farm.Homestead) error {
	var err error
	r.store.write(ctx, func() {
		if _, exists := r.store.players[h.Player.ID]; exists {
			err = ports.ErrConflict
			return
		}
		r.store.players[h.Player.ID] = h.Clone()
	})
	return err
}

func (r FarmStateRepo) SaveWithVersion(ctx context.Context, h farm.Homestead, expectedVersion int64) error {
	var err error
	r.store.write(ctx, func() {
		current, ok := r.store.players[h.Player.ID]
		if !ok || current.Player.Version != expectedVersion {
			err = ports.ErrConflict
			return
		}
		r.store.players[h.Player.ID] = h.Clone()
	})
	return err
}

func (r FarmStateRepo) ListPlayerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	r.store.read(ctx, func() {
		for id := range r.store.players {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids, nil
}
