package inmemory

import (
	"sync"
)

type Snapshot struct {
	ActionTotal     uint64            `json:"action_total"`
	ActionSuccess   uint64            `json:"action_success"`
	ActionFailure   uint64            `json:"action_failure"`
	ConflictRetries uint64            `json:"conflict_retries"`
	SuccessRate     float64           `json:"success_rate"`
	ByAction        map[string]uint64 `json:"by_action"`
}

// Recorder keeps action counters for the KPI endpoint. Conflicts are retried
// attempts, so they are not part of the action total.
type Recorder struct {
	mu       sync.Mutex
	success  uint64
	conflict uint64
	failure  uint64
	byAction map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byAction[action]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionSuccess:   r.success,
		ActionFailure:   r.failure,
		ConflictRetries: r.conflict,
		ActionTotal:     r.success + r.failure,
		ByAction:        make(map[string]uint64, len(r.byAction)),
	}
	if out.ActionTotal > 0 {
		out.SuccessRate = float64(r.success) / float64(out.ActionTotal)
	}
	for k, v := range r.byAction {
		out.ByAction[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
