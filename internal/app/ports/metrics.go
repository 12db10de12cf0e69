package ports

type ActionMetrics interface {
	RecordSuccess(action string)
	RecordConflict()
	RecordFailure()
}

// MultiMetrics fans out to several recorders.
type MultiMetrics []ActionMetrics

func (m MultiMetrics) RecordSuccess(action string) {
	for _, r := range m {
		r.RecordSuccess(action)
	}
}

func (m MultiMetrics) RecordConflict() {
	for _, r := range m {
		r.RecordConflict()
	}
}

func (m MultiMetrics) RecordFailure() {
	for _, r := range m {
		r.RecordFailure()
	}
}
