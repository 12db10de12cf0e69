package lifecycle

import (
	"time"

	"homestead/internal/domain/catalog"
)

// Projection is the observable state of an entity at a given instant.
type Projection struct {
	Status           Status    `json:"status"`
	ProgressPercent  int       `json:"progress_percent"`
	ReadyToCollect   bool      `json:"ready_to_collect"`
	CanProduce       bool      `json:"can_produce"`
	NeedsFeeding     bool      `json:"needs_feeding"`
	NextChangeAt     time.Time `json:"next_change_at,omitempty"`
	RemainingSeconds int64     `json:"remaining_seconds"`
}

// Project derives status and progress purely from timestamps. Every read and
// every mutation goes through here so the two never disagree.
func Project(e Entity, tpl catalog.Template, now time.Time) Projection {
	var p Projection
	switch e.Family {
	case catalog.FamilyBuilding:
		p = projectBuilding(e, tpl, now)
	case catalog.FamilyCrop:
		p = projectCrop(e, tpl, now)
	case catalog.FamilyAnimal:
		p = projectAnimal(e, tpl, now)
	case catalog.FamilyTerritory:
		p = projectTerritory(e, tpl, now)
	case catalog.FamilyPest:
		p = Projection{Status: StatusActive}
	default:
		p = Projection{Status: e.Status}
	}
	if !p.NextChangeAt.IsZero() && p.NextChangeAt.After(now) {
		p.RemainingSeconds = int64((p.NextChangeAt.Sub(now) + time.Second - 1) / time.Second)
	}
	return p
}

func projectBuilding(e Entity, tpl catalog.Template, now time.Time) Projection {
	builtAt := e.CreatedAt.Add(tpl.BuildDuration)
	if now.Before(builtAt) {
		return Projection{
			Status:          StatusBuilding,
			ProgressPercent: percent(now.Sub(e.CreatedAt), tpl.BuildDuration),
			NextChangeAt:    builtAt,
		}
	}
	p := Projection{Status: StatusBuilt, ProgressPercent: 100}
	if !tpl.Produces() {
		return p
	}
	readyAt := e.LastEventAt.Add(tpl.ProductionInterval)
	if now.Before(readyAt) {
		p.NextChangeAt = readyAt
		return p
	}
	p.ReadyToCollect = true
	p.CanProduce = true
	return p
}

func projectCrop(e Entity, tpl catalog.Template, now time.Time) Projection {
	readyAt := e.CreatedAt.Add(tpl.GrowDuration)
	if now.Before(readyAt) {
		return Projection{
			Status:          StatusGrowing,
			ProgressPercent: percent(now.Sub(e.CreatedAt), tpl.GrowDuration),
			NextChangeAt:    readyAt,
		}
	}
	if e.Protected {
		return Projection{Status: StatusReady, ProgressPercent: 100, ReadyToCollect: true}
	}
	witherAt := readyAt.Add(tpl.WitherDuration)
	if now.Before(witherAt) {
		return Projection{Status: StatusReady, ProgressPercent: 100, ReadyToCollect: true, NextChangeAt: witherAt}
	}
	return Projection{Status: StatusWithered, ProgressPercent: 100}
}

func projectAnimal(e Entity, tpl catalog.Template, now time.Time) Projection {
	adultAt := e.CreatedAt.Add(tpl.AdultAge)
	if now.Before(adultAt) {
		return Projection{
			Status:          StatusGrowing,
			ProgressPercent: percent(now.Sub(e.CreatedAt), tpl.AdultAge),
			NextChangeAt:    adultAt,
		}
	}
	p := Projection{Status: StatusAdult, ProgressPercent: 100}
	if !tpl.Produces() {
		return p
	}
	p.NeedsFeeding = !FedForWindow(e, tpl)
	dueAt := DueAt(e, tpl)
	if now.Before(dueAt) {
		p.NextChangeAt = dueAt
		return p
	}
	if p.NeedsFeeding {
		return p
	}
	p.Status = StatusProducing
	p.ReadyToCollect = true
	p.CanProduce = true
	return p
}

func projectTerritory(e Entity, tpl catalog.Template, now time.Time) Projection {
	if e.ClearStartedAt.IsZero() {
		return Projection{Status: StatusActive}
	}
	clearedAt := e.ClearStartedAt.Add(tpl.ClearDuration)
	if now.Before(clearedAt) {
		return Projection{
			Status:          StatusClearing,
			ProgressPercent: percent(now.Sub(e.ClearStartedAt), tpl.ClearDuration),
			NextChangeAt:    clearedAt,
		}
	}
	return Projection{Status: StatusCleared, ProgressPercent: 100, ReadyToCollect: true}
}

// CycleStart is when the current production window of an animal opened: the
// last collection, or adulthood if it was never collected.
func CycleStart(e Entity, tpl catalog.Template) time.Time {
	adultAt := e.CreatedAt.Add(tpl.AdultAge)
	if e.LastEventAt.After(adultAt) {
		return e.LastEventAt
	}
	return adultAt
}

// DueAt is when the current production window of an animal closes.
func DueAt(e Entity, tpl catalog.Template) time.Time {
	return CycleStart(e, tpl).Add(tpl.ProductionInterval)
}

// FedForWindow reports whether fed_until reaches into the current window.
func FedForWindow(e Entity, tpl catalog.Template) bool {
	return e.FedUntil.After(CycleStart(e, tpl))
}

func percent(elapsed, total time.Duration) int {
	if total <= 0 || elapsed >= total {
		return 100
	}
	if elapsed <= 0 {
		return 0
	}
	return int(int64(elapsed) * 100 / int64(total))
}
