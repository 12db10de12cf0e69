package ports

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means another writer got there first. The action use case
	// reruns the whole transaction when it sees it.
	ErrConflict = errors.New("conflict")
)

// TxManager runs fn in one transaction. Nested calls join the outer one.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
