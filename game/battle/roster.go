package battle

import (
	"fmt"

	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

// BuildState instantiates both rosters onto the board. Placements must sit
// inside their own deployment zone and no two units may share a cell.
func BuildState(seed int64, loader *resource.Loader, roster *resource.Roster, g grid.Grid) (State, error) {
	combatants := make([]Combatant, 0, len(roster.TeamA)+len(roster.TeamB))
	taken := make(map[grid.Cell]string)

	place := func(team Team, side int, placements []resource.Placement) error {
		for slot, p := range placements {
			tpl := loader.TemplateByID(p.Template)
			if tpl == nil {
				return fmt.Errorf("roster %s slot %d: unknown template %q", team, slot, p.Template)
			}
			cell := grid.Cell{X: p.X, Y: p.Y}
			if !g.Contains(cell) {
				return fmt.Errorf("roster %s slot %d: cell %v off board", team, slot, cell)
			}
			if !g.InDeployZone(cell, side) {
				return fmt.Errorf("roster %s slot %d: cell %v outside deployment zone", team, slot, cell)
			}
			if prev, used := taken[cell]; used {
				return fmt.Errorf("roster %s slot %d: cell %v already taken by %s", team, slot, cell, prev)
			}
			c := NewCombatant(tpl, loader.AbilityTable(), team, slot, cell)
			taken[cell] = c.ID
			combatants = append(combatants, c)
		}
		return nil
	}

	if err := place(TeamA, 0, roster.TeamA); err != nil {
		return State{}, err
	}
	if err := place(TeamB, 1, roster.TeamB); err != nil {
		return State{}, err
	}
	return NewState(seed, combatants), nil
}
