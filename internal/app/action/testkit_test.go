package action

import (
	"context"
	"sync"
	"testing"
	"time"

	"homestead/internal/adapter/repo/memory"
	"homestead/internal/app/ports"
	"homestead/internal/domain/catalog"
	"homestead/internal/domain/clock"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	uc      UseCase
	store   *memory.Store
	clock   *clock.Manual
	metrics *stubMetrics
	events  memory.EventRepo
}

func newHarness(t *testing.T, starter economy.Balance) harness {
	t.Helper()
	cat, err := catalog.LoadDefault()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	store := memory.NewStore()
	clk := clock.NewManual(t0)
	metrics := &stubMetrics{}
	events := memory.NewEventRepo(store)
	uc := UseCase{
		TxManager:  memory.NewTxManager(store),
		StateRepo:  memory.NewFarmStateRepo(store),
		ActionRepo: memory.NewActionExecutionRepo(store),
		EventRepo:  events,
		Metrics:    metrics,
		Engine:     farm.NewEngine(cat, nil),
		Starter:    starter,
		Clock:      clk,
	}
	return harness{uc: uc, store: store, clock: clk, metrics: metrics, events: events}
}

func (h harness) state(t *testing.T, playerID string) farm.Homestead {
	t.Helper()
	st, err := h.uc.StateRepo.GetByPlayerID(context.Background(), playerID)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return st
}

type stubMetrics struct {
	mu        sync.Mutex
	successes map[string]int
	conflicts int
	failures  int
}

func (m *stubMetrics) RecordSuccess(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.successes == nil {
		m.successes = map[string]int{}
	}
	m.successes[action]++
}

func (m *stubMetrics) RecordConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *stubMetrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// flakyStateRepo fails the first N saves with a version conflict.
type flakyStateRepo struct {
	ports.FarmStateRepository
	conflictsLeft int
	saves         int
}

func (r *flakyStateRepo) SaveWithVersion(ctx context.Context, h farm.Homestead, expectedVersion int64) error {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return ports.ErrConflict
	}
	r.saves++
	return r.FarmStateRepository.SaveWithVersion(ctx, h, expectedVersion)
}
