package battle

import (
	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

// Strategy selects which living enemy an actor goes after.
type Strategy int

const (
	StrategyNearest Strategy = iota
	StrategyWeakest
	StrategyThreat
)

// Role multipliers for threat scoring: backline damage and support score up,
// tanks score down.
var threatRoleMultiplier = map[string]float64{
	resource.RoleTank:    0.7,
	resource.RoleMelee:   1.0,
	resource.RoleRanged:  1.3,
	resource.RoleMage:    1.4,
	resource.RoleSupport: 1.2,
}

// ThreatScore rates how dangerous a candidate is to the actor: raw damage
// potential, a finish bonus when the candidate is within one routine of
// dying, and a proximity bonus, all scaled by the candidate's role.
func ThreatScore(actor, candidate *Combatant) float64 {
	potential := float64(candidate.DamagePotential())
	score := potential
	if candidate.HP <= actor.DamagePotential() {
		score += 50
	}
	score += 10.0 / float64(1+grid.Manhattan(actor.Pos, candidate.Pos))
	mult, ok := threatRoleMultiplier[candidate.Role]
	if !ok {
		mult = 1.0
	}
	return score * mult
}

// SelectTarget picks the actor's target among living enemies. A living
// taunting candidate always wins, ahead of every strategy. All ties,
// taunting candidates included, resolve to the lexicographically smallest
// instance ID so the choice never depends on input order. An empty candidate
// set returns ("", false), never an error.
func SelectTarget(s *State, actor *Combatant, strat Strategy) (string, bool) {
	// Taunt overrides every strategy: among taunting candidates only the
	// identifier decides.
	tauntID := ""
	for i := range s.Combatants {
		c := &s.Combatants[i]
		if !c.Alive || c.Team == actor.Team || !c.Sight.Taunt {
			continue
		}
		if tauntID == "" || c.ID < tauntID {
			tauntID = c.ID
		}
	}
	if tauntID != "" {
		return tauntID, true
	}

	bestID := ""
	var bestScore float64
	for i := range s.Combatants {
		c := &s.Combatants[i]
		if !c.Alive || c.Team == actor.Team {
			continue
		}
		var score float64
		switch strat {
		case StrategyNearest:
			score = float64(grid.Manhattan(actor.Pos, c.Pos))
		case StrategyWeakest:
			score = float64(c.HP)
		case StrategyThreat:
			// Highest threat wins; negate so smaller is better.
			score = -ThreatScore(actor, c)
		}
		if bestID == "" || score < bestScore || (score == bestScore && c.ID < bestID) {
			bestID, bestScore = c.ID, score
		}
	}
	return bestID, bestID != ""
}
