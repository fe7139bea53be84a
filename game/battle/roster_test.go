package battle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kasuganosora/gridbattle/resource"
)

func testLoader(t *testing.T) *resource.Loader {
	t.Helper()
	dir := t.TempDir()
	units := `
units:
  - id: knight
    name: Knight
    role: tank
    hp: 100
    atk: 20
    armor: 5
    speed: 3
    initiative: 5
    range: 1
    abilities: [guard_taunt]
  - id: archer
    name: Archer
    role: ranged
    hp: 55
    atk: 16
    atk_count: 2
    speed: 3
    initiative: 7
    range: 4
`
	abilities := `
abilities:
  - id: guard_taunt
    name: Guard's Challenge
    kind: taunt
`
	if err := os.WriteFile(filepath.Join(dir, "units.yaml"), []byte(units), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "abilities.yaml"), []byte(abilities), 0o644); err != nil {
		t.Fatal(err)
	}
	l := resource.NewLoader(dir)
	if err := l.Load(); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestBuildState(t *testing.T) {
	l := testLoader(t)
	roster := &resource.Roster{
		Seed: 42,
		TeamA: []resource.Placement{
			{Template: "knight", X: 3, Y: 0},
			{Template: "archer", X: 4, Y: 1},
		},
		TeamB: []resource.Placement{
			{Template: "knight", X: 3, Y: 9},
		},
	}
	s, err := BuildState(42, l, roster, testBoard())
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Combatants) != 3 {
		t.Fatalf("got %d combatants, want 3", len(s.Combatants))
	}

	knight := s.ByID("a0-knight")
	if knight == nil {
		t.Fatal("a0-knight missing")
	}
	if !knight.Sight.Taunt {
		t.Fatal("taunt ability not reflected in sight flags")
	}
	if knight.Facing.Dir != DirSouth {
		t.Fatalf("team A faces %v, want south", knight.Facing.Dir)
	}
	if got := s.ByID("b0-knight"); got == nil || got.Facing.Dir != DirNorth {
		t.Fatal("team B knight missing or facing wrong way")
	}
	if archer := s.ByID("a1-archer"); archer == nil || archer.Range != 4 {
		t.Fatal("a1-archer missing or range wrong")
	}
}

func TestBuildStateRejectsBadPlacements(t *testing.T) {
	l := testLoader(t)
	base := func() *resource.Roster {
		return &resource.Roster{
			Seed:  1,
			TeamA: []resource.Placement{{Template: "knight", X: 3, Y: 0}},
			TeamB: []resource.Placement{{Template: "knight", X: 3, Y: 9}},
		}
	}

	r := base()
	r.TeamA[0].Template = "dragon"
	if _, err := BuildState(1, l, r, testBoard()); err == nil {
		t.Fatal("expected error for unknown template")
	}

	r = base()
	r.TeamA[0].X = 8
	if _, err := BuildState(1, l, r, testBoard()); err == nil {
		t.Fatal("expected error for off-board cell")
	}

	r = base()
	r.TeamA[0].Y = 5 // outside rows 0-1
	if _, err := BuildState(1, l, r, testBoard()); err == nil {
		t.Fatal("expected error for cell outside deployment zone")
	}

	r = base()
	r.TeamA = append(r.TeamA, resource.Placement{Template: "archer", X: 3, Y: 0})
	if _, err := BuildState(1, l, r, testBoard()); err == nil {
		t.Fatal("expected error for duplicate cell")
	}
}
