package battle

import (
	"testing"

	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

func testUnit(id string, team Team, role string, hp, atk, x, y int) Combatant {
	return Combatant{
		ID:    id,
		Team:  team,
		Role:  role,
		Stats: Stats{HP: hp, Atk: atk, AtkCount: 1},
		Range: 1,
		Pos:   grid.Cell{X: x, Y: y},
		HP:    hp,
		MaxHP: hp,
		Alive: true,
	}
}

func TestSelectTargetNearest(t *testing.T) {
	s := NewState(1, []Combatant{
		testUnit("a0", TeamA, resource.RoleTank, 100, 20, 0, 0),
		testUnit("b0", TeamB, resource.RoleTank, 100, 20, 0, 3),
		testUnit("b1", TeamB, resource.RoleTank, 100, 20, 0, 5),
	})
	id, ok := SelectTarget(&s, s.ByID("a0"), StrategyNearest)
	if !ok || id != "b0" {
		t.Fatalf("got %q, want b0", id)
	}
}

func TestSelectTargetWeakest(t *testing.T) {
	s := NewState(1, []Combatant{
		testUnit("a0", TeamA, resource.RoleMelee, 70, 18, 0, 0),
		testUnit("b0", TeamB, resource.RoleTank, 100, 20, 0, 3),
		testUnit("b1", TeamB, resource.RoleTank, 100, 20, 0, 5),
	})
	s.ByID("b1").HP = 20
	id, ok := SelectTarget(&s, s.ByID("a0"), StrategyWeakest)
	if !ok || id != "b1" {
		t.Fatalf("got %q, want b1", id)
	}
}

func TestSelectTargetThreat(t *testing.T) {
	// A mage with high attack out-threatens a sturdier but passive tank at
	// equal distance.
	s := NewState(1, []Combatant{
		testUnit("a0", TeamA, resource.RoleRanged, 55, 16, 0, 0),
		testUnit("b0", TeamB, resource.RoleTank, 100, 10, 3, 0),
		testUnit("b1", TeamB, resource.RoleMage, 50, 25, 0, 3),
	})
	id, ok := SelectTarget(&s, s.ByID("a0"), StrategyThreat)
	if !ok || id != "b1" {
		t.Fatalf("got %q, want b1", id)
	}
}

func TestTauntBeatsEveryStrategy(t *testing.T) {
	s := NewState(1, []Combatant{
		testUnit("a0", TeamA, resource.RoleMelee, 70, 18, 0, 0),
		testUnit("b0", TeamB, resource.RoleMage, 30, 25, 0, 2), // nearer, weaker, scarier
		testUnit("b9", TeamB, resource.RoleTank, 100, 10, 0, 7),
	})
	s.ByID("b9").Sight.Taunt = true
	for _, strat := range []Strategy{StrategyNearest, StrategyWeakest, StrategyThreat} {
		id, ok := SelectTarget(&s, s.ByID("a0"), strat)
		if !ok || id != "b9" {
			t.Fatalf("strategy %v: got %q, want taunting b9", strat, id)
		}
	}
}

func TestTauntIgnoredWhenDead(t *testing.T) {
	s := NewState(1, []Combatant{
		testUnit("a0", TeamA, resource.RoleMelee, 70, 18, 0, 0),
		testUnit("b0", TeamB, resource.RoleMage, 30, 25, 0, 2),
		testUnit("b9", TeamB, resource.RoleTank, 100, 10, 0, 7),
	})
	s.ByID("b9").Sight.Taunt = true
	s.ByID("b9").Alive = false
	id, ok := SelectTarget(&s, s.ByID("a0"), StrategyNearest)
	if !ok || id != "b0" {
		t.Fatalf("got %q, want b0", id)
	}
}

func TestTieBreakStability(t *testing.T) {
	// Three candidates identical under every criterion, fed in different
	// slice orders, always resolve to the smallest id.
	build := func(order []string) State {
		units := []Combatant{testUnit("a0", TeamA, resource.RoleTank, 100, 20, 4, 0)}
		// All three sit at Manhattan distance 5 from the actor.
		pos := map[string]grid.Cell{"b1": {X: 2, Y: 3}, "b2": {X: 6, Y: 3}, "b3": {X: 4, Y: 5}}
		for _, id := range order {
			u := testUnit(id, TeamB, resource.RoleTank, 100, 20, pos[id].X, pos[id].Y)
			units = append(units, u)
		}
		return NewState(1, units)
	}
	orders := [][]string{
		{"b1", "b2", "b3"},
		{"b3", "b1", "b2"},
		{"b2", "b3", "b1"},
	}
	for _, strat := range []Strategy{StrategyNearest, StrategyWeakest, StrategyThreat} {
		for _, order := range orders {
			s := build(order)
			for rep := 0; rep < 5; rep++ {
				id, ok := SelectTarget(&s, s.ByID("a0"), strat)
				if !ok || id != "b1" {
					t.Fatalf("strategy %v order %v: got %q, want b1", strat, order, id)
				}
			}
		}
	}
}

func TestSelectTargetEmpty(t *testing.T) {
	s := NewState(1, []Combatant{
		testUnit("a0", TeamA, resource.RoleTank, 100, 20, 0, 0),
		testUnit("b0", TeamB, resource.RoleTank, 100, 20, 0, 3),
	})
	s.ByID("b0").Alive = false
	if id, ok := SelectTarget(&s, s.ByID("a0"), StrategyNearest); ok {
		t.Fatalf("expected no target, got %q", id)
	}
}
