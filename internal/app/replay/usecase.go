package replay

import (
	"context"
	"errors"
	"strings"
	"time"

	"homestead/internal/app/ports"
	"homestead/internal/domain/farm"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	defaultLimit = 50
	maxLimit     = 500
)

type UseCase struct {
	Events ports.EventRepository
}

type Request struct {
	PlayerID string
	Limit    int
	// Types keeps only events of these types when non-empty.
	Types        []string
	OccurredFrom int64
	OccurredTo   int64
}

type Response struct {
	Events []farm.DomainEvent `json:"events"`
}

// Execute returns the newest events first.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	q := ports.EventQuery{Limit: limit}
	for _, t := range req.Types {
		if t = strings.TrimSpace(t); t != "" {
			q.Types = append(q.Types, t)
		}
	}
	if req.OccurredFrom > 0 {
		q.Since = time.Unix(req.OccurredFrom, 0)
	}
	if req.OccurredTo > 0 {
		// occurred_to is a whole second and includes all of it.
		q.Until = time.Unix(req.OccurredTo+1, 0)
	}
	events, err := u.Events.ListByPlayerID(ctx, req.PlayerID, q)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return Response{}, err
	}
	if events == nil {
		events = []farm.DomainEvent{}
	}
	return Response{Events: events}, nil
}
