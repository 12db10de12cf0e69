package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"homestead/internal/app/ports"

	"gorm.io/gorm"
)

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// RunInTx joins an outer transaction when ctx already carries one. Unique-key
// violations surfacing from any statement are reported as ports.ErrConflict.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromCtx(ctx); ok {
		return fn(ctx)
	}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) && !errors.Is(err, ports.ErrConflict) {
		return fmt.Errorf("%w: %v", ports.ErrConflict, err)
	}
	return err
}
