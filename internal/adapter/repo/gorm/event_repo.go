package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"homestead/internal/adapter/repo/gorm/model"
	"homestead/internal/app/ports"
	"homestead/internal/domain/farm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, playerID string, events []farm.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.DomainEvent, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		rows = append(rows, model.DomainEvent{
			PlayerID:   playerID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListByPlayerID returns the newest events first.
func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, q ports.EventQuery) ([]farm.DomainEvent, error) {
	rows := []model.DomainEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.DomainEvent{PlayerID: playerID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "event_id"}, Desc: true},
			},
		})
	if len(q.Types) > 0 {
		query = query.Where("type IN ?", q.Types)
	}
	if !q.Since.IsZero() {
		query = query.Where("occurred_at >= ?", q.Since)
	}
	if !q.Until.IsZero() {
		query = query.Where("occurred_at < ?", q.Until)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]farm.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, farm.DomainEvent{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
