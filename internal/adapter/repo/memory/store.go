package memory

import (
	"context"
	"sync"

	"homestead/internal/app/ports"
	"homestead/internal/domain/farm"
)

// Store keeps everything in process. TxManager holds the write lock for the
// whole transaction; repos called outside a transaction lock on their own.
type Store struct {
	mu        sync.RWMutex
	players   map[string]farm.Homestead
	execution map[string]ports.ActionExecutionRecord
	events    map[string][]farm.DomainEvent
}

func NewStore() *Store {
	return &Store{
		players:   make(map[string]farm.Homestead),
		execution: make(map[string]ports.ActionExecutionRecord),
		events:    make(map[string][]farm.DomainEvent),
	}
}

func execKey(playerID, key string) string {
	return playerID + "::" + key
}

func (s *Store) SeedHomestead(h farm.Homestead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[h.Player.ID] = h.Clone()
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}
