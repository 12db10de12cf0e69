package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"homestead/internal/app/action"
	"homestead/internal/app/entities"
	"homestead/internal/app/ports"
	"homestead/internal/app/profile"
	"homestead/internal/app/quests"
	"homestead/internal/app/replay"
	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
	"homestead/internal/domain/lifecycle"
	"homestead/internal/domain/quest"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const playerIDHeader = "X-Player-ID"
const idempotencyHeader = "Idempotency-Key"

var ErrMissingPlayerID = errors.New("missing x-player-id header")

type Handler struct {
	ActionUC   action.UseCase
	ProfileUC  profile.UseCase
	EntitiesUC entities.UseCase
	QuestsUC   quests.UseCase
	ReplayUC   replay.UseCase
	Catalog    *catalog.Catalog
	KPI        kpiSnapshotProvider
	Metrics    http.Handler
	Logger     *slog.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(), accessLog(h.logger()))

	api := s.Group("/api")
	api.POST("/entities", h.place)
	api.POST("/entities/:id/collect", h.targeted(action.KindCollect))
	api.POST("/entities/:id/harvest", h.targeted(action.KindHarvest))
	api.POST("/entities/:id/feed", h.targeted(action.KindFeed))
	api.POST("/entities/:id/protect", h.targeted(action.KindProtect))
	api.POST("/entities/:id/clear", h.targeted(action.KindClear))
	api.POST("/entities/:id/chase", h.targeted(action.KindChase))
	api.POST("/territory/scatter", h.scatter)
	api.DELETE("/entities/:id", h.targeted(action.KindRemove))
	api.POST("/quests/:id/claim", h.targeted(action.KindClaim))
	api.POST("/market/purchase", h.purchase)
	api.POST("/collections/:id/exchange", h.targeted(action.KindExchange))

	api.GET("/entities", h.entities)
	api.GET("/profile", h.profile)
	api.GET("/quests", h.quests)
	api.GET("/events", h.events)
	api.GET("/catalog", h.catalog)

	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

type placeRequest struct {
	TemplateID string             `json:"template_id"`
	Position   lifecycle.Position `json:"position"`
}

type purchaseRequest struct {
	ItemID string `json:"item_id"`
}

type scatterRequest struct {
	Count int `json:"count"`
}

func (h Handler) place(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body placeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json", nil)
		return
	}
	h.runAction(c, ctx, action.Request{
		PlayerID:       playerID,
		IdempotencyKey: idempotencyKey(ctx),
		Kind:           action.KindPlace,
		TemplateID:     body.TemplateID,
		Position:       body.Position,
	}, consts.StatusCreated)
}

func (h Handler) purchase(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body purchaseRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json", nil)
		return
	}
	h.runAction(c, ctx, action.Request{
		PlayerID:       playerID,
		IdempotencyKey: idempotencyKey(ctx),
		Kind:           action.KindPurchase,
		TargetID:       body.ItemID,
	}, consts.StatusOK)
}

func (h Handler) scatter(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body scatterRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json", nil)
		return
	}
	h.runAction(c, ctx, action.Request{
		PlayerID:       playerID,
		IdempotencyKey: idempotencyKey(ctx),
		Kind:           action.KindScatter,
		Count:          body.Count,
	}, consts.StatusCreated)
}

// targeted serves every action whose only argument is the :id path segment.
func (h Handler) targeted(kind action.Kind) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		playerID, err := requirePlayer(ctx)
		if err != nil {
			writeError(ctx, err)
			return
		}
		h.runAction(c, ctx, action.Request{
			PlayerID:       playerID,
			IdempotencyKey: idempotencyKey(ctx),
			Kind:           kind,
			TargetID:       ctx.Param("id"),
		}, consts.StatusOK)
	}
}

func (h Handler) runAction(c context.Context, ctx *app.RequestContext, req action.Request, status int) {
	resp, err := h.ActionUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if resp.Replayed {
		status = consts.StatusOK
	}
	ctx.JSON(status, resp)
}

func (h Handler) entities(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.EntitiesUC.Execute(c, entities.Request{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) profile(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.ProfileUC.Execute(c, profile.Request{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) quests(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.QuestsUC.Execute(c, quests.Request{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	var types []string
	if raw := strings.TrimSpace(string(ctx.Query("types"))); raw != "" {
		types = strings.Split(raw, ",")
	}
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		PlayerID:     playerID,
		Limit:        limit,
		Types:        types,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type catalogResponse struct {
	Templates   []catalog.Template       `json:"templates"`
	Quests      []catalog.QuestDef       `json:"quests"`
	Market      []catalog.MarketItem     `json:"market"`
	Collections []catalog.CollectionSet  `json:"collections"`
	Levels      []catalog.LevelThreshold `json:"levels"`
}

func (h Handler) catalog(_ context.Context, ctx *app.RequestContext) {
	if h.Catalog == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "catalog not configured", nil)
		return
	}
	ctx.JSON(consts.StatusOK, catalogResponse{
		Templates:   h.Catalog.Templates(),
		Quests:      h.Catalog.Quests(),
		Market:      h.Catalog.Market(),
		Collections: h.Catalog.Collections(),
		Levels:      h.Catalog.Levels(),
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured", nil)
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func accessLog(logger *slog.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		logger.Info("http request",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"player_id", string(ctx.GetHeader(playerIDHeader)),
			"duration", time.Since(start),
		)
	}
}

func requirePlayer(ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	if playerID == "" {
		return "", ErrMissingPlayerID
	}
	return playerID, nil
}

func idempotencyKey(ctx *app.RequestContext) string {
	return strings.TrimSpace(string(ctx.GetHeader(idempotencyHeader)))
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var shortfall *economy.ShortfallError
	var locked *farm.LevelLockedError

	switch {
	case errors.Is(err, ErrMissingPlayerID):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error(), nil)
	case errors.As(err, &shortfall):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_resources", err.Error(), map[string]any{
			"missing": shortfall.Missing,
		})
	case errors.Is(err, economy.ErrInsufficientResources):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_resources", err.Error(), nil)
	case errors.Is(err, farm.ErrPositionOccupied):
		writeErrorBody(ctx, consts.StatusConflict, "position_occupied", err.Error(), nil)
	case errors.As(err, &locked):
		writeErrorBody(ctx, consts.StatusForbidden, "level_locked", err.Error(), map[string]any{
			"template_id":    locked.TemplateID,
			"required_level": locked.Required,
			"level":          locked.Level,
		})
	case errors.Is(err, farm.ErrLevelLocked):
		writeErrorBody(ctx, consts.StatusForbidden, "level_locked", err.Error(), nil)
	case errors.Is(err, lifecycle.ErrAlreadyCollected):
		writeErrorBody(ctx, consts.StatusConflict, "already_collected", err.Error(), nil)
	case errors.Is(err, lifecycle.ErrNotReady):
		writeErrorBody(ctx, consts.StatusConflict, "not_ready", err.Error(), nil)
	case errors.Is(err, lifecycle.ErrWithered):
		writeErrorBody(ctx, consts.StatusConflict, "withered", err.Error(), nil)
	case errors.Is(err, lifecycle.ErrInvalidState):
		writeErrorBody(ctx, consts.StatusConflict, "invalid_state", err.Error(), nil)
	case errors.Is(err, quest.ErrNotCompleted):
		writeErrorBody(ctx, consts.StatusConflict, "not_completed", err.Error(), nil)
	case errors.Is(err, quest.ErrAlreadyClaimed):
		writeErrorBody(ctx, consts.StatusConflict, "already_claimed", err.Error(), nil)
	case errors.Is(err, quest.ErrLocked):
		writeErrorBody(ctx, consts.StatusForbidden, "quest_locked", err.Error(), nil)
	case errors.Is(err, farm.ErrUnknownTemplate):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_template", err.Error(), nil)
	case errors.Is(err, farm.ErrNotFound),
		errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, action.ErrIdempotencyMismatch):
		writeErrorBody(ctx, consts.StatusConflict, "idempotency_mismatch", err.Error(), nil)
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, profile.ErrInvalidRequest),
		errors.Is(err, entities.ErrInvalidRequest),
		errors.Is(err, quests.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error(), nil)
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error(), nil)
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		body["details"] = details
	}
	ctx.JSON(status, map[string]any{"error": body})
}
