package lifecycle

import (
	"errors"
	"testing"
	"time"

	"homestead/internal/domain/catalog"
	"homestead/internal/domain/economy"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func wheat() catalog.Template {
	return catalog.Template{
		ID:             "wheat",
		Family:         catalog.FamilyCrop,
		Cost:           economy.Balance{economy.Gold: 10},
		Yield:          economy.Balance{economy.Food: 20, economy.Gold: 5},
		GrowDuration:   60 * time.Second,
		WitherDuration: 300 * time.Second,
	}
}

func saloon() catalog.Template {
	return catalog.Template{
		ID:                 "saloon",
		Family:             catalog.FamilyBuilding,
		Cost:               economy.Balance{economy.Gold: 100, economy.Wood: 50, economy.Stone: 30},
		Yield:              economy.Balance{economy.Gold: 10},
		BuildDuration:      30 * time.Second,
		ProductionInterval: catalog.DefaultBuildingInterval,
	}
}

func chicken() catalog.Template {
	return catalog.Template{
		ID:                 "chicken",
		Family:             catalog.FamilyAnimal,
		Yield:              economy.Balance{economy.Food: 5},
		FeedCost:           economy.Balance{economy.Food: 2},
		AdultAge:           120 * time.Second,
		ProductionInterval: 60 * time.Second,
		Experience:         3,
	}
}

func TestProject_ProgressNeverDecreasesWithoutMutation(t *testing.T) {
	for _, tpl := range []catalog.Template{wheat(), saloon(), chicken()} {
		e := New("e1", "p1", tpl, Position{}, t0)
		last := -1
		for sec := 0; sec <= 600; sec += 7 {
			p := Project(e, tpl, at(sec))
			if p.ProgressPercent < 0 || p.ProgressPercent > 100 {
				t.Fatalf("%s progress out of range at %d: %d", tpl.ID, sec, p.ProgressPercent)
			}
			if p.ProgressPercent < last {
				t.Fatalf("%s progress decreased at %d: got=%d prev=%d", tpl.ID, sec, p.ProgressPercent, last)
			}
			last = p.ProgressPercent
		}
	}
}

func TestProject_CropStages(t *testing.T) {
	tpl := wheat()
	e := New("e1", "p1", tpl, Position{}, t0)
	cases := []struct {
		sec      int
		status   Status
		progress int
	}{
		{0, StatusGrowing, 0},
		{30, StatusGrowing, 50},
		{60, StatusReady, 100},
		{359, StatusReady, 100},
		{360, StatusWithered, 100},
		{400, StatusWithered, 100},
	}
	for _, tc := range cases {
		p := Project(e, tpl, at(tc.sec))
		if p.Status != tc.status || p.ProgressPercent != tc.progress {
			t.Fatalf("t=%d got=%s/%d want=%s/%d", tc.sec, p.Status, p.ProgressPercent, tc.status, tc.progress)
		}
	}
	if p := Project(e, tpl, at(30)); p.RemainingSeconds != 30 {
		t.Fatalf("expected 30s remaining, got %d", p.RemainingSeconds)
	}
}

func TestProject_ProtectedCropNeverWithers(t *testing.T) {
	tpl := wheat()
	e := New("e1", "p1", tpl, Position{}, t0)
	if err := Protect(&e, tpl, at(10)); err != nil {
		t.Fatalf("protect: %v", err)
	}
	if got := Project(e, tpl, at(100000)).Status; got != StatusReady {
		t.Fatalf("expected protected crop to stay ready, got %s", got)
	}
	if err := Protect(&e, tpl, at(20)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected second protect rejected, got %v", err)
	}
}

func TestHarvest_Rules(t *testing.T) {
	tpl := wheat()
	e := New("e1", "p1", tpl, Position{}, t0)
	if _, err := Harvest(&e, tpl, at(30)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected not ready, got %v", err)
	}
	if _, err := Harvest(&e, tpl, at(400)); !errors.Is(err, ErrWithered) {
		t.Fatalf("expected withered, got %v", err)
	}
	got, err := Harvest(&e, tpl, at(61))
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if got.Get(economy.Food) != 20 || got.Get(economy.Gold) != 5 {
		t.Fatalf("unexpected yield: %v", got)
	}
}

func TestCollect_BuildingOncePerInterval(t *testing.T) {
	tpl := saloon()
	e := New("e1", "p1", tpl, Position{}, t0)

	p := Project(e, tpl, at(31))
	if p.Status != StatusBuilt || p.ReadyToCollect {
		t.Fatalf("expected built and not ready at t=31, got %+v", p)
	}
	if !Project(e, tpl, at(60)).ReadyToCollect {
		t.Fatalf("expected ready at t=60")
	}
	got, err := Collect(&e, tpl, at(90))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got.Get(economy.Gold) != 10 {
		t.Fatalf("unexpected yield: %v", got)
	}
	_, err = Collect(&e, tpl, at(90))
	if !errors.Is(err, ErrNotReady) || !errors.Is(err, ErrAlreadyCollected) {
		t.Fatalf("expected already collected not-ready, got %v", err)
	}
	if _, err := Collect(&e, tpl, at(149)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected not ready before next interval, got %v", err)
	}
	// A late collect still yields a single interval.
	got, err = Collect(&e, tpl, at(1000))
	if err != nil || got.Get(economy.Gold) != 10 {
		t.Fatalf("late collect got=%v err=%v", got, err)
	}
}

func TestCollect_BuildingUnderConstruction(t *testing.T) {
	tpl := saloon()
	e := New("e1", "p1", tpl, Position{}, t0)
	if _, err := Collect(&e, tpl, at(10)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected not ready, got %v", err)
	}
}

func TestAnimal_FeedGatesProduction(t *testing.T) {
	tpl := chicken()
	e := New("e1", "p1", tpl, Position{}, t0)

	if err := Feed(&e, tpl, at(60)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected feeding a juvenile rejected, got %v", err)
	}
	p := Project(e, tpl, at(200))
	if p.Status != StatusAdult || !p.NeedsFeeding || p.CanProduce {
		t.Fatalf("expected unfed adult after interval, got %+v", p)
	}
	if _, err := Collect(&e, tpl, at(200)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected unfed collect rejected, got %v", err)
	}
	if err := Feed(&e, tpl, at(200)); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if err := Feed(&e, tpl, at(201)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected double feed rejected, got %v", err)
	}
	if e.FedUntil != at(260) || e.TimesFed != 1 {
		t.Fatalf("unexpected feed bookkeeping: fed_until=%v times_fed=%d", e.FedUntil, e.TimesFed)
	}
	p = Project(e, tpl, at(200))
	if p.Status != StatusAdult || p.NeedsFeeding || p.NextChangeAt != at(260) {
		t.Fatalf("expected a fresh fed window after a late feed, got %+v", p)
	}
	if p = Project(e, tpl, at(260)); p.Status != StatusProducing || !p.CanProduce {
		t.Fatalf("expected producing when the fed window closes, got %+v", p)
	}
	got, err := Collect(&e, tpl, at(270))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got.Get(economy.Food) != 5 || got.Get(economy.Experience) != 3 {
		t.Fatalf("unexpected yield: %v", got)
	}
	p = Project(e, tpl, at(400))
	if p.CanProduce || !p.NeedsFeeding {
		t.Fatalf("expected cycle reset requiring feed, got %+v", p)
	}
}

func TestAnimal_FeedWhileProducingCoversNextWindow(t *testing.T) {
	tpl := chicken()
	e := New("e1", "p1", tpl, Position{}, t0)
	if err := Feed(&e, tpl, at(130)); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if p := Project(e, tpl, at(190)); p.Status != StatusProducing {
		t.Fatalf("status at 190: got=%s want=%s", p.Status, StatusProducing)
	}
	if err := Feed(&e, tpl, at(190)); err != nil {
		t.Fatalf("feed while producing: %v", err)
	}
	if err := Feed(&e, tpl, at(195)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected a second feed for the same next window rejected, got %v", err)
	}
	if _, err := Collect(&e, tpl, at(200)); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if e.FedUntil != at(250) {
		t.Fatalf("fed_until after collect: got=%v want=%v", e.FedUntil, at(250))
	}
	if p := Project(e, tpl, at(230)); p.Status != StatusAdult || p.NeedsFeeding {
		t.Fatalf("expected fed adult in next window, got %+v", p)
	}
	if p := Project(e, tpl, at(260)); p.Status != StatusProducing || !p.CanProduce {
		t.Fatalf("expected next cycle to produce without another feed, got %+v", p)
	}
	if _, err := Collect(&e, tpl, at(260)); err != nil {
		t.Fatalf("second collect: %v", err)
	}
	if p := Project(e, tpl, at(330)); p.CanProduce || !p.NeedsFeeding {
		t.Fatalf("expected carried feed spent after second collect, got %+v", p)
	}
}

func TestAnimal_OneFeedProducesOnce(t *testing.T) {
	tpl := chicken()
	e := New("e1", "p1", tpl, Position{}, t0)
	if err := Feed(&e, tpl, at(130)); err != nil {
		t.Fatalf("feed: %v", err)
	}
	// fed_until (190) still runs past this collect.
	if _, err := Collect(&e, tpl, at(185)); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if p := Project(e, tpl, at(250)); p.CanProduce || !p.NeedsFeeding {
		t.Fatalf("expected the in-window feed spent by collect, got %+v", p)
	}
}

func TestAnimal_CarriedFeedLapses(t *testing.T) {
	tpl := chicken()
	e := New("e1", "p1", tpl, Position{}, t0)
	_ = Feed(&e, tpl, at(130))
	if err := Feed(&e, tpl, at(190)); err != nil {
		t.Fatalf("feed while producing: %v", err)
	}
	if _, err := Collect(&e, tpl, at(400)); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if p := Project(e, tpl, at(400)); !p.NeedsFeeding {
		t.Fatalf("expected carried feed lapsed past fed_until, got %+v", p)
	}
}

func TestAnimal_FedMidCycleProducesWhenDue(t *testing.T) {
	tpl := chicken()
	e := New("e1", "p1", tpl, Position{}, t0)
	if err := Feed(&e, tpl, at(130)); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if p := Project(e, tpl, at(170)); p.Status != StatusAdult || p.NeedsFeeding {
		t.Fatalf("expected fed adult mid cycle, got %+v", p)
	}
	if p := Project(e, tpl, at(180)); p.Status != StatusProducing {
		t.Fatalf("expected producing at cycle end, got %+v", p)
	}
}

func TestAnimal_WithoutIntervalNeverProduces(t *testing.T) {
	tpl := catalog.Template{ID: "horse", Family: catalog.FamilyAnimal, AdultAge: time.Minute}
	e := New("e1", "p1", tpl, Position{}, t0)
	p := Project(e, tpl, at(100000))
	if p.Status != StatusAdult || p.CanProduce || p.NeedsFeeding {
		t.Fatalf("unexpected projection: %+v", p)
	}
	if err := Feed(&e, tpl, at(100000)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected feed rejected, got %v", err)
	}
}

func TestCheckRemove(t *testing.T) {
	cases := []struct {
		name string
		tpl  catalog.Template
		sec  int
		ok   bool
	}{
		{"growing crop", wheat(), 10, false},
		{"ready crop", wheat(), 100, false},
		{"withered crop", wheat(), 400, true},
		{"building under construction", saloon(), 10, true},
		{"built building", saloon(), 40, false},
		{"juvenile animal", chicken(), 10, false},
		{"adult animal", chicken(), 130, true},
	}
	for _, tc := range cases {
		e := New("e1", "p1", tc.tpl, Position{}, t0)
		err := CheckRemove(e, tc.tpl, at(tc.sec))
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidState) {
			t.Fatalf("%s: expected invalid state, got %v", tc.name, err)
		}
	}
}

func TestRefresh_IsIdempotent(t *testing.T) {
	tpl := wheat()
	e := New("e1", "p1", tpl, Position{}, t0)
	if !Refresh(&e, tpl, at(61)) || e.Status != StatusReady {
		t.Fatalf("expected status change to ready, got %s", e.Status)
	}
	if Refresh(&e, tpl, at(61)) {
		t.Fatalf("expected second refresh to be a no-op")
	}
}

func grass() catalog.Template {
	return catalog.Template{
		ID:            "grass",
		Family:        catalog.FamilyTerritory,
		ClearCost:     economy.Balance{economy.Energy: 1},
		ClearDuration: 10 * time.Second,
		Yield:         economy.Balance{economy.Gold: 2},
		Experience:    1,
	}
}

func TestTerritory_ClearingLifecycle(t *testing.T) {
	tpl := grass()
	e := New("e1", "p1", tpl, Position{}, t0)
	if e.Status != StatusActive {
		t.Fatalf("initial status got=%s want=%s", e.Status, StatusActive)
	}
	if _, err := Collect(&e, tpl, at(100)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected collect before clearing rejected, got %v", err)
	}
	if err := StartClearing(&e, tpl, at(100)); err != nil {
		t.Fatalf("start clearing: %v", err)
	}
	if err := StartClearing(&e, tpl, at(101)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected second start rejected, got %v", err)
	}
	p := Project(e, tpl, at(104))
	if p.Status != StatusClearing || p.ProgressPercent != 40 || p.RemainingSeconds != 6 {
		t.Fatalf("unexpected clearing projection: %+v", p)
	}
	if _, err := Collect(&e, tpl, at(105)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected not ready while clearing, got %v", err)
	}
	if p = Project(e, tpl, at(110)); p.Status != StatusCleared || !p.ReadyToCollect {
		t.Fatalf("expected cleared at 110, got %+v", p)
	}
	got, err := Collect(&e, tpl, at(110))
	if err != nil {
		t.Fatalf("collect cleared: %v", err)
	}
	if got.Get(economy.Gold) != 2 || got.Get(economy.Experience) != 1 {
		t.Fatalf("unexpected clearing reward: %v", got)
	}
}

func TestPest_OnlyChased(t *testing.T) {
	tpl := catalog.Template{ID: "snake", Family: catalog.FamilyPest, Yield: economy.Balance{economy.Gold: 15}, Experience: 8}
	e := New("e1", "p1", tpl, Position{}, t0)
	if p := Project(e, tpl, at(500)); p.Status != StatusActive || p.ReadyToCollect {
		t.Fatalf("unexpected pest projection: %+v", p)
	}
	if _, err := Collect(&e, tpl, at(1)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected pest collect rejected, got %v", err)
	}
	if err := CheckRemove(e, tpl, at(1)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected pest removal rejected, got %v", err)
	}
	got, err := Chase(&e, tpl)
	if err != nil || got.Get(economy.Experience) != 8 {
		t.Fatalf("chase reward=%v err=%v", got, err)
	}
	wheatTpl := wheat()
	crop := New("e2", "p1", wheatTpl, Position{X: 1}, t0)
	if _, err := Chase(&crop, wheatTpl); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected chasing a crop rejected, got %v", err)
	}
}
