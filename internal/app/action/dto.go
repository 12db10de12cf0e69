package action

import (
	"homestead/internal/app/ports"
	"homestead/internal/domain/lifecycle"
)

type Kind string

const (
	KindPlace    Kind = "place"
	KindCollect  Kind = "collect"
	KindHarvest  Kind = "harvest"
	KindFeed     Kind = "feed"
	KindProtect  Kind = "protect"
	KindRemove   Kind = "remove"
	KindClaim    Kind = "claim"
	KindPurchase Kind = "purchase"
	KindExchange Kind = "exchange"
	KindScatter  Kind = "scatter"
	KindClear    Kind = "clear"
	KindChase    Kind = "chase"
)

type Request struct {
	PlayerID       string
	IdempotencyKey string
	Kind           Kind
	// TemplateID and Position are used by place only.
	TemplateID string
	Position   lifecycle.Position
	// TargetID names the entity, quest, market item or collection.
	TargetID string
	// Count is the number of obstacles to scatter; zero means the default.
	Count int
}

type Response struct {
	ports.ActionResult
	Replayed bool `json:"replayed"`
}
