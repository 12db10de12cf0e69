package lifecycle

import (
	"fmt"
	"time"

	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
)

// Collect takes one interval of production from a built building or a
// producing animal. The interval clock restarts at now, so a late collect
// never yields more than one interval.
func Collect(e *Entity, tpl catalog.Template, now time.Time) (economy.Balance, error) {
	switch e.Family {
	case catalog.FamilyCrop:
		return nil, fmt.Errorf("%w: crops are harvested, not collected", ErrInvalidState)
	case catalog.FamilyPest:
		return nil, fmt.Errorf("%w: pests are chased, not collected", ErrInvalidState)
	case catalog.FamilyTerritory:
		return collectCleared(e, tpl, now)
	}
	p := Project(*e, tpl, now)
	if !p.CanProduce {
		if e.TimesCollected > 0 && !e.LastEventAt.Before(now) {
			return nil, ErrAlreadyCollected
		}
		return nil, ErrNotReady
	}
	// A feed made before the window came due is spent by this collect. One
	// made while producing keeps its fed_until and covers the next window.
	if e.Family == catalog.FamilyAnimal && e.FedAt.Before(DueAt(*e, tpl)) && e.FedUntil.After(now) {
		e.FedUntil = now
	}
	e.LastEventAt = now
	e.TimesCollected++
	e.Status = Project(*e, tpl, now).Status
	return rewardOf(tpl), nil
}

// collectCleared pays out a cleared obstacle. The caller removes the entity.
func collectCleared(e *Entity, tpl catalog.Template, now time.Time) (economy.Balance, error) {
	switch Project(*e, tpl, now).Status {
	case StatusActive:
		return nil, fmt.Errorf("%w: clearing not started", ErrInvalidState)
	case StatusClearing:
		return nil, ErrNotReady
	}
	e.LastEventAt = now
	e.TimesCollected++
	e.Status = StatusCleared
	return rewardOf(tpl), nil
}

// StartClearing begins clearing an untouched obstacle. The caller debits the
// clear cost.
func StartClearing(e *Entity, tpl catalog.Template, now time.Time) error {
	if e.Family != catalog.FamilyTerritory {
		return fmt.Errorf("%w: only territory can be cleared", ErrInvalidState)
	}
	if !e.ClearStartedAt.IsZero() {
		return fmt.Errorf("%w: clearing already started", ErrInvalidState)
	}
	e.ClearStartedAt = now
	e.LastEventAt = now
	e.Status = Project(*e, tpl, now).Status
	return nil
}

// Chase validates that the entity is a pest and returns its reward. The
// caller debits the chase cost and removes the pest.
func Chase(e *Entity, tpl catalog.Template) (economy.Balance, error) {
	if e.Family != catalog.FamilyPest {
		return nil, fmt.Errorf("%w: only pests can be chased", ErrInvalidState)
	}
	return rewardOf(tpl), nil
}

// Harvest validates a ready crop and returns its yield. The caller removes
// the entity.
func Harvest(e *Entity, tpl catalog.Template, now time.Time) (economy.Balance, error) {
	if e.Family != catalog.FamilyCrop {
		return nil, fmt.Errorf("%w: only crops can be harvested", ErrInvalidState)
	}
	switch Project(*e, tpl, now).Status {
	case StatusGrowing:
		return nil, ErrNotReady
	case StatusWithered:
		return nil, ErrWithered
	}
	e.LastEventAt = now
	e.TimesCollected++
	e.Status = StatusReady
	return rewardOf(tpl), nil
}

// Feed sets fed_until to now plus one production interval. An adult is fed
// for its current window; if that window already lapsed unfed, a new one
// opens at now. A producing animal is fed for the window after its next
// collect. The caller debits the feed cost.
func Feed(e *Entity, tpl catalog.Template, now time.Time) error {
	if e.Family != catalog.FamilyAnimal {
		return fmt.Errorf("%w: only animals can be fed", ErrInvalidState)
	}
	if !tpl.Produces() {
		return fmt.Errorf("%w: %s does not produce", ErrInvalidState, tpl.ID)
	}
	p := Project(*e, tpl, now)
	switch p.Status {
	case StatusAdult:
		if FedForWindow(*e, tpl) {
			return fmt.Errorf("%w: already fed for this window", ErrInvalidState)
		}
		if !now.Before(DueAt(*e, tpl)) {
			e.LastEventAt = now
		}
	case StatusProducing:
		if !e.FedAt.Before(DueAt(*e, tpl)) {
			return fmt.Errorf("%w: already fed for the next window", ErrInvalidState)
		}
	default:
		return fmt.Errorf("%w: cannot feed while %s", ErrInvalidState, p.Status)
	}
	e.FedAt = now
	e.FedUntil = now.Add(tpl.ProductionInterval)
	e.TimesFed++
	e.Status = Project(*e, tpl, now).Status
	return nil
}

// Protect shields a growing or ready crop from withering.
func Protect(e *Entity, tpl catalog.Template, now time.Time) error {
	if e.Family != catalog.FamilyCrop {
		return fmt.Errorf("%w: only crops can be protected", ErrInvalidState)
	}
	if e.Protected {
		return fmt.Errorf("%w: already protected", ErrInvalidState)
	}
	if status := Project(*e, tpl, now).Status; status == StatusWithered {
		return fmt.Errorf("%w: crop already withered", ErrInvalidState)
	}
	e.Protected = true
	return nil
}

// CheckRemove reports whether the entity may be removed at now: withered
// crops, sale-eligible animals and buildings still under construction.
func CheckRemove(e Entity, tpl catalog.Template, now time.Time) error {
	status := Project(e, tpl, now).Status
	switch e.Family {
	case catalog.FamilyCrop:
		if status == StatusWithered {
			return nil
		}
	case catalog.FamilyAnimal:
		if status == StatusAdult || status == StatusProducing {
			return nil
		}
	case catalog.FamilyBuilding:
		if status == StatusBuilding {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot remove %s while %s", ErrInvalidState, e.Family, status)
}

// Refresh stores the projected status on the entity and reports whether it
// changed.
func Refresh(e *Entity, tpl catalog.Template, now time.Time) bool {
	status := Project(*e, tpl, now).Status
	if status == e.Status {
		return false
	}
	e.Status = status
	return true
}

func rewardOf(tpl catalog.Template) economy.Balance {
	out := tpl.Yield.Clone()
	if tpl.Experience > 0 {
		out[economy.Experience] += tpl.Experience
	}
	return out
}
