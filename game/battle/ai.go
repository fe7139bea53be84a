package battle

import (
	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

// ActionType enumerates what a combatant can do with its turn.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionAttack
	ActionMove
	ActionHeal
	ActionBuff
)

// AbilityInspire is the support role's built-in buff: a flat attack bonus
// worth a tenth of the target's base attack.
const AbilityInspire = "inspire"

// Critical-heal threshold as a fraction of max hp.
const criticalHPRatio = 0.3

// Decision is the outcome of the AI step for one turn. A no-action decision
// carries zero priority and a reason; it is a normal result, not an error.
type Decision struct {
	Type     ActionType
	TargetID string
	Path     []grid.Cell // ActionMove: includes the start cell
	Priority int
	Reason   string
}

func noAction(reason string) Decision {
	return Decision{Type: ActionNone, Priority: 0, Reason: reason}
}

// Decide picks one action for the actor using fixed role heuristics: tanks
// close on the nearest enemy, melee dps finishes the weakest, ranged and
// mages chase the highest threat, support heals then buffs. Every role falls
// back to moving toward the nearest enemy, then to no action.
func Decide(s *State, actor *Combatant, g grid.Grid, pathMaxIter int) Decision {
	if !actor.Alive {
		return noAction("dead")
	}

	if actor.Role == resource.RoleSupport {
		if d, ok := decideSupport(s, actor, g, pathMaxIter); ok {
			return d
		}
	}

	strat := strategyForRole(actor.Role)
	targetID, ok := SelectTarget(s, actor, strat)
	if !ok {
		return noAction("no living enemy")
	}
	target := s.ByID(targetID)

	if grid.Manhattan(actor.Pos, target.Pos) <= actor.Range {
		return Decision{Type: ActionAttack, TargetID: targetID, Priority: 3}
	}

	if actor.Engagement.Pinned {
		// Pinned units cannot move; attack whatever is still in reach.
		if id, found := nearestInRange(s, actor); found {
			return Decision{Type: ActionAttack, TargetID: id, Priority: 2}
		}
		return noAction("pinned with no enemy in range")
	}

	if path := approachPath(s, actor, target.Pos, g, pathMaxIter); len(path) >= 2 {
		return Decision{Type: ActionMove, TargetID: targetID, Path: path, Priority: 1}
	}

	// Fall back to the nearest enemy before giving up the turn.
	if strat != StrategyNearest {
		if id, found := SelectTarget(s, actor, StrategyNearest); found {
			near := s.ByID(id)
			if path := approachPath(s, actor, near.Pos, g, pathMaxIter); len(path) >= 2 {
				return Decision{Type: ActionMove, TargetID: id, Path: path, Priority: 1}
			}
		}
	}
	return noAction("no reachable enemy")
}

func strategyForRole(role string) Strategy {
	switch role {
	case resource.RoleTank:
		return StrategyNearest
	case resource.RoleMelee:
		return StrategyWeakest
	case resource.RoleRanged, resource.RoleMage:
		return StrategyThreat
	default:
		return StrategyNearest
	}
}

// decideSupport runs the support priority chain: critical heal, standard
// heal, buff. Returns ok=false when none applies so the shared fallbacks
// take over.
func decideSupport(s *State, actor *Combatant, g grid.Grid, pathMaxIter int) (Decision, bool) {
	if target := pickHealTarget(s, actor, true); target != "" {
		return supportReach(s, actor, target, ActionHeal, 4, g, pathMaxIter)
	}
	if target := pickHealTarget(s, actor, false); target != "" {
		return supportReach(s, actor, target, ActionHeal, 3, g, pathMaxIter)
	}
	if target := pickBuffTarget(s, actor); target != "" {
		return supportReach(s, actor, target, ActionBuff, 2, g, pathMaxIter)
	}
	return Decision{}, false
}

// supportReach acts on the ally when in range, or walks toward it.
func supportReach(s *State, actor *Combatant, targetID string, action ActionType, prio int, g grid.Grid, pathMaxIter int) (Decision, bool) {
	target := s.ByID(targetID)
	if grid.Manhattan(actor.Pos, target.Pos) <= actor.Range {
		return Decision{Type: action, TargetID: targetID, Priority: prio}, true
	}
	if actor.Engagement.Pinned {
		return Decision{}, false
	}
	if path := approachPath(s, actor, target.Pos, g, pathMaxIter); len(path) >= 2 {
		return Decision{Type: ActionMove, TargetID: targetID, Path: path, Priority: 1}, true
	}
	return Decision{}, false
}

// pickHealTarget returns the living ally with the lowest hp ratio below the
// relevant threshold, ties to the smallest ID. Critical mode uses the 30%
// threshold; standard mode any missing hp.
func pickHealTarget(s *State, actor *Combatant, critical bool) string {
	bestID := ""
	bestRatio := 0.0
	for i := range s.Combatants {
		c := &s.Combatants[i]
		if !c.Alive || c.Team != actor.Team {
			continue
		}
		ratio := float64(c.HP) / float64(c.MaxHP)
		if critical {
			if ratio >= criticalHPRatio {
				continue
			}
		} else if c.HP >= c.MaxHP {
			continue
		}
		if bestID == "" || ratio < bestRatio || (ratio == bestRatio && c.ID < bestID) {
			bestID, bestRatio = c.ID, ratio
		}
	}
	return bestID
}

// pickBuffTarget returns the hardest-hitting living ally not yet carrying
// this support's inspire buff.
func pickBuffTarget(s *State, actor *Combatant) string {
	bestID := ""
	bestAtk := 0
	for i := range s.Combatants {
		c := &s.Combatants[i]
		if !c.Alive || c.Team != actor.Team || c.ID == actor.ID {
			continue
		}
		if hasBuffFrom(c, actor.ID, AbilityInspire) {
			continue
		}
		if bestID == "" || c.Stats.Atk > bestAtk || (c.Stats.Atk == bestAtk && c.ID < bestID) {
			bestID, bestAtk = c.ID, c.Stats.Atk
		}
	}
	return bestID
}

func hasBuffFrom(c *Combatant, source, ability string) bool {
	for _, b := range c.Auras.Buffs {
		if b.Source == source && b.Ability == ability {
			return true
		}
	}
	return false
}

// nearestInRange finds the closest living enemy within attack range, ties to
// the smallest ID.
func nearestInRange(s *State, actor *Combatant) (string, bool) {
	bestID := ""
	bestDist := 0
	for i := range s.Combatants {
		c := &s.Combatants[i]
		if !c.Alive || c.Team == actor.Team {
			continue
		}
		d := grid.Manhattan(actor.Pos, c.Pos)
		if d > actor.Range {
			continue
		}
		if bestID == "" || d < bestDist || (d == bestDist && c.ID < bestID) {
			bestID, bestDist = c.ID, d
		}
	}
	return bestID, bestID != ""
}

// approachPath plans the walk toward a goal cell: shortest path to the
// closest reachable cell, cut at the first cell already within attack range,
// then capped by the movement budget. Returns nil when no progress is
// possible.
func approachPath(s *State, actor *Combatant, goal grid.Cell, g grid.Grid, pathMaxIter int) []grid.Cell {
	speed := actor.EffectiveSpeed()
	if speed <= 0 {
		return nil
	}
	blocked := s.Occupied(actor.ID)
	path := g.ClosestReachable(actor.Pos, goal, blocked, pathMaxIter)
	if len(path) < 2 {
		return nil
	}
	// Stop as soon as the goal is in attack range.
	for i, c := range path {
		if g.InRange(c, goal, actor.Range) {
			path = path[:i+1]
			break
		}
	}
	if len(path) > speed+1 {
		path = path[:speed+1]
	}
	if len(path) < 2 {
		return nil
	}
	return path
}
