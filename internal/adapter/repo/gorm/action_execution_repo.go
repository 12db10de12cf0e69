package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"homestead/internal/adapter/repo/gorm/model"
	"homestead/internal/app/ports"

	"gorm.io/gorm"
)

type ActionExecutionRepo struct {
	db *gorm.DB
}

func NewActionExecutionRepo(db *gorm.DB) ActionExecutionRepo {
	return ActionExecutionRepo{db: db}
}

func (r ActionExecutionRepo) GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ports.ActionExecutionRecord, error) {
	var m model.ActionExecution
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ActionExecution{PlayerID: playerID, IdempotencyKey: key}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var result ports.ActionResult
	if err := json.Unmarshal(m.Result, &result); err != nil {
		return nil, fmt.Errorf("decode execution %s: %w", key, err)
	}
	return &ports.ActionExecutionRecord{
		PlayerID:       m.PlayerID,
		IdempotencyKey: m.IdempotencyKey,
		Action:         m.Action,
		Target:         m.Target,
		Result:         result,
		AppliedAt:      m.AppliedAt,
	}, nil
}

func (r ActionExecutionRepo) SaveExecution(ctx context.Context, execution ports.ActionExecutionRecord) error {
	resultJSON, err := json.Marshal(execution.Result)
	if err != nil {
		return fmt.Errorf("encode execution result: %w", err)
	}
	m := model.ActionExecution{
		PlayerID:       execution.PlayerID,
		IdempotencyKey: execution.IdempotencyKey,
		Action:         execution.Action,
		Target:         execution.Target,
		Result:         resultJSON,
		AppliedAt:      execution.AppliedAt,
	}
	err = getDBFromCtx(ctx, r.db).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}
