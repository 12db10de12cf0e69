package farm

import (
	"errors"
	"testing"

	"homestead/internal/domain/economy"
	"homestead/internal/domain/lifecycle"
	"homestead/internal/domain/quest"
)

func TestWheatScenario(t *testing.T) {
	eng := testEngine(t, fixedDice{roll: 0.99})
	h := newPlayer(economy.Balance{economy.Gold: 10})

	placed, err := eng.Place(&h, "wheat", lifecycle.Position{X: 1, Y: 1}, at(0))
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if got := h.Ledger.Get(economy.Gold); got != 0 {
		t.Fatalf("gold after planting got=%d want=0", got)
	}
	if placed.Projection.Status != lifecycle.StatusGrowing {
		t.Fatalf("expected growing, got %s", placed.Projection.Status)
	}

	out, err := eng.Harvest(&h, placed.Entity.ID, at(61))
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if h.Registry.Len() != 0 {
		t.Fatalf("expected crop removed after harvest")
	}
	if h.Ledger.Get(economy.Food) != 20 || h.Ledger.Get(economy.Gold) != 5 {
		t.Fatalf("unexpected balance: %v", h.Ledger.Balance())
	}
	if len(out.Drops) != 0 {
		t.Fatalf("expected no drops with a high roll, got %v", out.Drops)
	}

	h.Ledger.Credit(economy.Balance{economy.Gold: 5})
	second, err := eng.Place(&h, "wheat", lifecycle.Position{X: 1, Y: 1}, at(0))
	if err != nil {
		t.Fatalf("replant: %v", err)
	}
	board := eng.Project(h, at(400))
	if len(board) != 1 || board[0].Projection.Status != lifecycle.StatusWithered {
		t.Fatalf("expected withered at t=400, got %+v", board)
	}
	if _, err := eng.Harvest(&h, second.Entity.ID, at(400)); !errors.Is(err, lifecycle.ErrWithered) {
		t.Fatalf("expected withered error, got %v", err)
	}
}

func TestSaloonScenario(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 100, economy.Wood: 50, economy.Stone: 30})

	placed, err := eng.Place(&h, "saloon", lifecycle.Position{}, at(0))
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	id := placed.Entity.ID
	p := eng.Project(h, at(31))[0].Projection
	if p.Status != lifecycle.StatusBuilt || p.ReadyToCollect {
		t.Fatalf("expected built but not ready at t=31, got %+v", p)
	}
	if _, err := eng.Collect(&h, id, at(31)); !errors.Is(err, lifecycle.ErrNotReady) {
		t.Fatalf("expected not ready at t=31, got %v", err)
	}
	out, err := eng.Collect(&h, id, at(90))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if out.Delta.Get(economy.Gold) != 10 || h.Ledger.Get(economy.Gold) != 10 {
		t.Fatalf("unexpected collect delta=%v balance=%v", out.Delta, h.Ledger.Balance())
	}
	if _, err := eng.Collect(&h, id, at(90)); !errors.Is(err, lifecycle.ErrNotReady) {
		t.Fatalf("expected second collect not ready, got %v", err)
	}
	if h.Ledger.Get(economy.Gold) != 10 {
		t.Fatalf("second collect must not credit, gold=%d", h.Ledger.Get(economy.Gold))
	}
}

func TestGoldRushQuestScenario(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 549, economy.Experience: 100})
	h.Player.Level = 2

	if _, err := eng.Place(&h, "mine", lifecycle.Position{X: 3}, at(0)); err != nil {
		t.Fatalf("place mine: %v", err)
	}
	board := eng.QuestBoard(h, at(20))
	if len(board) != 1 || board[0].Completed {
		t.Fatalf("expected incomplete at gold=499, got %+v", board)
	}
	if _, err := eng.ClaimQuest(&h, "gold_rush", at(20)); !errors.Is(err, quest.ErrNotCompleted) {
		t.Fatalf("expected not completed, got %v", err)
	}

	h.Ledger.Credit(economy.Balance{economy.Gold: 1})
	if board := eng.QuestBoard(h, at(20)); !board[0].Completed {
		t.Fatalf("expected complete at gold=500")
	}
	out, err := eng.ClaimQuest(&h, "gold_rush", at(21))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if out.LevelAfter != 3 || h.Player.Level != 3 {
		t.Fatalf("expected level 3 after reward, got out=%d player=%d", out.LevelAfter, h.Player.Level)
	}
	if len(out.Events) != 2 || out.Events[1].Type != EventLevelUp {
		t.Fatalf("expected claim and level up events, got %+v", out.Events)
	}

	if err := h.Ledger.Debit(economy.Balance{economy.Gold: 700}); err != nil {
		t.Fatalf("drain gold: %v", err)
	}
	if _, err := eng.ClaimQuest(&h, "gold_rush", at(30)); !errors.Is(err, quest.ErrAlreadyClaimed) {
		t.Fatalf("expected already claimed, got %v", err)
	}
	if board := eng.QuestBoard(h, at(30)); board[0].Completed || !board[0].Claimed {
		t.Fatalf("expected claimed but no longer complete, got %+v", board[0])
	}
}

func TestPlace_Rejections(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 15})

	if _, err := eng.Place(&h, "wheat", lifecycle.Position{}, at(0)); err != nil {
		t.Fatalf("place: %v", err)
	}
	if _, err := eng.Place(&h, "sunflower", lifecycle.Position{}, at(1)); !errors.Is(err, ErrPositionOccupied) {
		t.Fatalf("expected position occupied, got %v", err)
	}
	_, err := eng.Place(&h, "mine", lifecycle.Position{X: 9}, at(1))
	var locked *LevelLockedError
	if !errors.As(err, &locked) || !errors.Is(err, ErrLevelLocked) || locked.Required != 2 {
		t.Fatalf("expected level locked, got %v", err)
	}
	before := h.Ledger.Balance()
	if _, err := eng.Place(&h, "wheat", lifecycle.Position{X: 2}, at(1)); !errors.Is(err, economy.ErrInsufficientResources) {
		t.Fatalf("expected insufficient resources, got %v", err)
	}
	if h.Registry.Len() != 1 || h.Ledger.Get(economy.Gold) != before.Get(economy.Gold) {
		t.Fatalf("failed place must not change state")
	}
	if _, err := eng.Place(&h, "dragon", lifecycle.Position{X: 3}, at(1)); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected unknown template, got %v", err)
	}
}

func TestRemove_NeverRefundsCost(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 100})

	crop, _ := eng.Place(&h, "wheat", lifecycle.Position{X: 1}, at(0))
	if _, err := eng.Remove(&h, crop.Entity.ID, at(100)); !errors.Is(err, lifecycle.ErrInvalidState) {
		t.Fatalf("expected ready crop removal rejected, got %v", err)
	}
	if _, err := eng.Remove(&h, crop.Entity.ID, at(400)); err != nil {
		t.Fatalf("remove withered: %v", err)
	}
	if got := h.Ledger.Get(economy.Gold); got != 90 {
		t.Fatalf("gold after removing withered crop got=%d want=90", got)
	}

	animal, _ := eng.Place(&h, "chicken", lifecycle.Position{X: 2}, at(0))
	out, err := eng.Remove(&h, animal.Entity.ID, at(130))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if out.Delta.Get(economy.Gold) != 15 || h.Ledger.Get(economy.Gold) != 85 {
		t.Fatalf("expected sell value only, delta=%v balance=%v", out.Delta, h.Ledger.Balance())
	}
	if _, err := eng.Remove(&h, animal.Entity.ID, at(131)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHarvest_DropsAndButterflies(t *testing.T) {
	eng := testEngine(t, fixedDice{roll: 0.1, pick: 1})
	h := newPlayer(economy.Balance{economy.Gold: 100})

	crop, _ := eng.Place(&h, "wheat", lifecycle.Position{X: 1}, at(0))
	out, err := eng.Harvest(&h, crop.Entity.ID, at(60))
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if len(out.Drops) != 1 || out.Drops[0] != "wheat_sheaf" || h.Ledger.Get("wheat_sheaf") != 1 {
		t.Fatalf("expected wheat_sheaf drop, got %v", out.Drops)
	}

	flower, _ := eng.Place(&h, "sunflower", lifecycle.Position{X: 2}, at(0))
	if _, err := eng.Harvest(&h, flower.Entity.ID, at(30)); err != nil {
		t.Fatalf("harvest flower: %v", err)
	}
	if h.Ledger.Get(economy.Butterflies) != 1 || h.Ledger.Get(economy.Experience) != 4 {
		t.Fatalf("unexpected balance after flower harvest: %v", h.Ledger.Balance())
	}
}

func TestFeed_RequiresFoodAndLeavesStateOnFailure(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 20})
	animal, _ := eng.Place(&h, "chicken", lifecycle.Position{}, at(0))
	id := animal.Entity.ID

	if _, err := eng.Feed(&h, id, at(130)); !errors.Is(err, economy.ErrInsufficientResources) {
		t.Fatalf("expected insufficient food, got %v", err)
	}
	if ent, _ := h.Registry.Get(id); ent.TimesFed != 0 || !ent.FedAt.IsZero() {
		t.Fatalf("failed feed must not touch the entity: %+v", ent)
	}

	h.Ledger.Credit(economy.Balance{economy.Food: 2})
	if _, err := eng.Feed(&h, id, at(130)); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if h.Ledger.Get(economy.Food) != 0 {
		t.Fatalf("expected feed cost debited")
	}
	out, err := eng.Collect(&h, id, at(180))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if out.Delta.Get(economy.Food) != 5 {
		t.Fatalf("unexpected yield: %v", out.Delta)
	}
}

func TestFeed_WhileProducingCarriesIntoNextCycle(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 20, economy.Food: 4})
	animal, _ := eng.Place(&h, "chicken", lifecycle.Position{}, at(0))
	id := animal.Entity.ID

	if _, err := eng.Feed(&h, id, at(130)); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if _, err := eng.Feed(&h, id, at(190)); err != nil {
		t.Fatalf("feed while producing: %v", err)
	}
	if _, err := eng.Collect(&h, id, at(200)); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, err := eng.Collect(&h, id, at(260)); err != nil {
		t.Fatalf("collect next cycle without feeding: %v", err)
	}
	if got := h.Ledger.Get(economy.Food); got != 10 {
		t.Fatalf("food after two feeds and two collects got=%d want=10", got)
	}
	if _, err := eng.Collect(&h, id, at(320)); !errors.Is(err, lifecycle.ErrNotReady) {
		t.Fatalf("expected third cycle to need feeding, got %v", err)
	}
}

func TestPurchaseAndExchange(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 50, "wheat_seed": 1})

	if _, err := eng.Purchase(&h, "wood_pack", at(0)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if h.Ledger.Get(economy.Wood) != 100 || h.Ledger.Get(economy.Gold) != 0 {
		t.Fatalf("unexpected balance: %v", h.Ledger.Balance())
	}
	if _, err := eng.Purchase(&h, "wood_pack", at(1)); !errors.Is(err, economy.ErrInsufficientResources) {
		t.Fatalf("expected insufficient, got %v", err)
	}
	if h.Ledger.Get(economy.Wood) != 100 {
		t.Fatalf("failed purchase must not credit")
	}

	if _, err := eng.ExchangeCollection(&h, "wheat", at(2)); !errors.Is(err, quest.ErrNotCompleted) {
		t.Fatalf("expected incomplete collection, got %v", err)
	}
	h.Ledger.Credit(economy.Balance{"wheat_sheaf": 1})
	if _, err := eng.ExchangeCollection(&h, "wheat", at(3)); err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if h.Ledger.Get(economy.DroughtProtection) != 1 || h.Ledger.Get("wheat_seed") != 0 {
		t.Fatalf("unexpected balance after exchange: %v", h.Ledger.Balance())
	}
}

func TestProtect_ConsumesDroughtProtection(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 10})
	crop, _ := eng.Place(&h, "wheat", lifecycle.Position{}, at(0))

	if _, err := eng.Protect(&h, crop.Entity.ID, at(10)); !errors.Is(err, economy.ErrInsufficientResources) {
		t.Fatalf("expected insufficient protection, got %v", err)
	}
	h.Ledger.Credit(economy.Balance{economy.DroughtProtection: 1})
	if _, err := eng.Protect(&h, crop.Entity.ID, at(10)); err != nil {
		t.Fatalf("protect: %v", err)
	}
	if _, err := eng.Harvest(&h, crop.Entity.ID, at(5000)); err != nil {
		t.Fatalf("protected crop should still be harvestable: %v", err)
	}
}

func TestRefreshAndClone(t *testing.T) {
	eng := testEngine(t, nil)
	h := newPlayer(economy.Balance{economy.Gold: 10})
	crop, _ := eng.Place(&h, "wheat", lifecycle.Position{}, at(0))

	cp := h.Clone()
	if n := eng.Refresh(&cp, at(61)); n != 1 {
		t.Fatalf("expected one refreshed entity, got %d", n)
	}
	if again := eng.Refresh(&cp, at(61)); again != 0 {
		t.Fatalf("expected refresh to be idempotent, got %d", again)
	}
	if orig, _ := h.Registry.Get(crop.Entity.ID); orig.Status != lifecycle.StatusGrowing {
		t.Fatalf("clone must not share entity storage, got %s", orig.Status)
	}
}
