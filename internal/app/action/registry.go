package action

import (
	"time"

	"homestead/internal/domain/farm"
)

type actionSpec struct {
	Kind     Kind
	Validate func(req Request) bool
	Apply    func(eng *farm.Engine, h *farm.Homestead, req Request, now time.Time) (farm.Outcome, error)
}

func hasTarget(req Request) bool { return req.TargetID != "" }

var registry = map[Kind]actionSpec{
	KindPlace: {
		Kind:     KindPlace,
		Validate: func(req Request) bool { return req.TemplateID != "" },
		Apply: func(eng *farm.Engine, h *farm.Homestead, req Request, now time.Time) (farm.Outcome, error) {
			return eng.Place(h, req.TemplateID, req.Position, now)
		},
	},
	KindCollect:  targetSpec(KindCollect, (*farm.Engine).Collect),
	KindHarvest:  targetSpec(KindHarvest, (*farm.Engine).Harvest),
	KindFeed:     targetSpec(KindFeed, (*farm.Engine).Feed),
	KindProtect:  targetSpec(KindProtect, (*farm.Engine).Protect),
	KindRemove:   targetSpec(KindRemove, (*farm.Engine).Remove),
	KindClaim:    targetSpec(KindClaim, (*farm.Engine).ClaimQuest),
	KindPurchase: targetSpec(KindPurchase, (*farm.Engine).Purchase),
	KindExchange: targetSpec(KindExchange, (*farm.Engine).ExchangeCollection),
	KindScatter: {
		Kind:     KindScatter,
		Validate: func(req Request) bool { return req.Count >= 0 },
		Apply: func(eng *farm.Engine, h *farm.Homestead, req Request, now time.Time) (farm.Outcome, error) {
			return eng.Scatter(h, req.Count, now)
		},
	},
	KindClear: targetSpec(KindClear, (*farm.Engine).Clear),
	KindChase: targetSpec(KindChase, (*farm.Engine).Chase),
}

func targetSpec(kind Kind, op func(*farm.Engine, *farm.Homestead, string, time.Time) (farm.Outcome, error)) actionSpec {
	return actionSpec{
		Kind:     kind,
		Validate: hasTarget,
		Apply: func(eng *farm.Engine, h *farm.Homestead, req Request, now time.Time) (farm.Outcome, error) {
			return op(eng, h, req.TargetID, now)
		},
	}
}

func lookupSpec(kind Kind) (actionSpec, bool) {
	spec, ok := registry[kind]
	return spec, ok
}
