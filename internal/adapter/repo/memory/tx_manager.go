package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serializes transactions on the store lock. Writes made before fn
// fails are not rolled back; use cases only write after every check passed.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(context.WithValue(ctx, txKey, true))
}
