package memory

import (
	"context"

	"homestead/internal/app/ports"
	"homestead/internal/domain/farm"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, playerID string, events []farm.DomainEvent) error {
	r.store.write(ctx, func() {
		r.store.events[playerID] = append(r.store.events[playerID], events...)
	})
	return nil
}

// ListByPlayerID returns the newest events first.
func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, q ports.EventQuery) ([]farm.DomainEvent, error) {
	var out []farm.DomainEvent
	r.store.read(ctx, func() {
		all := r.store.events[playerID]
		for i := len(all) - 1; i >= 0; i-- {
			if q.Limit > 0 && len(out) >= q.Limit {
				break
			}
			if q.Matches(all[i]) {
				out = append(out, all[i])
			}
		}
	})
	return out, nil
}
