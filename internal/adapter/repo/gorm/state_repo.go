package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homestead/internal/adapter/repo/gorm/model"
	"homestead/internal/app/ports"
	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
	"homestead/internal/domain/lifecycle"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FarmStateRepo stores a Homestead across players, player_resources,
// placed_entities and quest_claims.
type FarmStateRepo struct {
	db *gorm.DB
}

func NewFarmStateRepo(db *gorm.DB) FarmStateRepo {
	return FarmStateRepo{db: db}
}

// GetByPlayerID takes a row lock on the player, so inside a transaction every
// other writer for the same player waits until commit.
func (r FarmStateRepo) GetByPlayerID(ctx context.Context, playerID string) (farm.Homestead, error) {
	db := getDBFromCtx(ctx, r.db)
	var p model.Player
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("player_id = ?", playerID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return farm.Homestead{}, ports.ErrNotFound
		}
		return farm.Homestead{}, err
	}

	var resources []model.PlayerResource
	if err := db.Where("player_id = ?", playerID).Find(&resources).Error; err != nil {
		return farm.Homestead{}, fmt.Errorf("load resources: %w", err)
	}
	var rows []model.PlacedEntity
	if err := db.Where("owner_id = ?", playerID).Order("created_at, entity_id").Find(&rows).Error; err != nil {
		return farm.Homestead{}, fmt.Errorf("load entities: %w", err)
	}
	var claims []model.QuestClaim
	if err := db.Where("player_id = ?", playerID).Find(&claims).Error; err != nil {
		return farm.Homestead{}, fmt.Errorf("load quest claims: %w", err)
	}

	balance := economy.Balance{}
	for _, res := range resources {
		balance[economy.Resource(res.Resource)] = int(res.Amount)
	}
	entities := make([]lifecycle.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, toEntity(row))
	}
	claimed := make(map[string]time.Time, len(claims))
	for _, c := range claims {
		claimed[c.QuestID] = c.ClaimedAt
	}
	return farm.Restore(farm.Player{
		ID:        p.PlayerID,
		Level:     int(p.Level),
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, balance, entities, claimed)
}

func (r FarmStateRepo) Create(ctx context.Context, h farm.Homestead) error {
	db := getDBFromCtx(ctx, r.db)
	p := model.Player{
		PlayerID:  h.Player.ID,
		Level:     int32(h.Player.Level),
		Version:   h.Player.Version,
		CreatedAt: h.Player.CreatedAt,
		UpdatedAt: h.Player.UpdatedAt,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return r.writeChildren(db, h)
}

func (r FarmStateRepo) SaveWithVersion(ctx context.Context, h farm.Homestead, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	res := db.Model(&model.Player{}).
		Where("player_id = ? AND version = ?", h.Player.ID, expectedVersion).
		Updates(map[string]any{
			"level":      int32(h.Player.Level),
			"version":    h.Player.Version,
			"updated_at": h.Player.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return r.writeChildren(db, h)
}

func (r FarmStateRepo) ListPlayerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := getDBFromCtx(ctx, r.db).Model(&model.Player{}).Order("player_id").Pluck("player_id", &ids).Error
	return ids, err
}

func (r FarmStateRepo) writeChildren(db *gorm.DB, h farm.Homestead) error {
	playerID := h.Player.ID
	if err := db.Where("player_id = ?", playerID).Delete(&model.PlayerResource{}).Error; err != nil {
		return fmt.Errorf("clear resources: %w", err)
	}
	balance := h.Ledger.Balance()
	if len(balance) > 0 {
		rows := make([]model.PlayerResource, 0, len(balance))
		for _, k := range balance.Keys() {
			rows = append(rows, model.PlayerResource{PlayerID: playerID, Resource: string(k), Amount: int64(balance[k])})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("write resources: %w", err)
		}
	}

	entities := h.Registry.List()
	keep := make([]string, 0, len(entities))
	for _, e := range entities {
		keep = append(keep, e.ID)
	}
	stale := db.Where("owner_id = ?", playerID)
	if len(keep) > 0 {
		stale = stale.Where("entity_id NOT IN ?", keep)
	}
	if err := stale.Delete(&model.PlacedEntity{}).Error; err != nil {
		return fmt.Errorf("delete removed entities: %w", err)
	}
	if len(entities) > 0 {
		rows := make([]model.PlacedEntity, 0, len(entities))
		for _, e := range entities {
			rows = append(rows, fromEntity(e))
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_id"}},
			UpdateAll: true,
		}).Create(&rows).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("write entities: %w", err)
		}
	}

	if len(h.Claimed) > 0 {
		claims := make([]model.QuestClaim, 0, len(h.Claimed))
		for questID, at := range h.Claimed {
			claims = append(claims, model.QuestClaim{PlayerID: playerID, QuestID: questID, ClaimedAt: at})
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&claims).Error; err != nil {
			return fmt.Errorf("write quest claims: %w", err)
		}
	}
	return nil
}

func toEntity(row model.PlacedEntity) lifecycle.Entity {
	e := lifecycle.Entity{
		ID:             row.EntityID,
		OwnerID:        row.OwnerID,
		TemplateID:     row.TemplateID,
		Family:         catalog.Family(row.Family),
		Position:       lifecycle.Position{X: int(row.X), Y: int(row.Y)},
		Status:         lifecycle.Status(row.Status),
		CreatedAt:      row.CreatedAt,
		LastEventAt:    row.LastEventAt,
		Protected:      row.Protected,
		TimesFed:       int(row.TimesFed),
		TimesCollected: int(row.TimesCollected),
	}
	if row.FedAt != nil {
		e.FedAt = *row.FedAt
	}
	if row.FedUntil != nil {
		e.FedUntil = *row.FedUntil
	}
	if row.ClearStartedAt != nil {
		e.ClearStartedAt = *row.ClearStartedAt
	}
	return e
}

func fromEntity(e lifecycle.Entity) model.PlacedEntity {
	return model.PlacedEntity{
		EntityID:       e.ID,
		OwnerID:        e.OwnerID,
		TemplateID:     e.TemplateID,
		Family:         string(e.Family),
		X:              int32(e.Position.X),
		Y:              int32(e.Position.Y),
		Status:         string(e.Status),
		CreatedAt:      e.CreatedAt,
		LastEventAt:    e.LastEventAt,
		FedAt:          optionalTime(e.FedAt),
		FedUntil:       optionalTime(e.FedUntil),
		Protected:      e.Protected,
		TimesFed:       int32(e.TimesFed),
		TimesCollected: int32(e.TimesCollected),
		ClearStartedAt: optionalTime(e.ClearStartedAt),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
