package mechanics

import (
	"math"
	"sort"

	"github.com/kasuganosora/gridbattle/config"
	"github.com/kasuganosora/gridbattle/game/battle"
	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/game/rng"
)

// Opportunity attacks use fixed odds and always strike at half strength.
const (
	opportunityHitChance   = 0.8
	opportunityDamageScale = 0.5
)

// Engagement implements zones of control. A melee unit threatens the cells
// within the configured range; enemies inside are engaged, pinned when two
// or more threats overlap. Leaving a zone draws an opportunity attack, and
// engaged ranged units lose part of their damage.
type Engagement struct {
	grid       grid.Grid
	zoc        int
	penaltyPct int
	minDamage  int
}

func NewEngagement(g grid.Grid, ec config.EngineConfig, mc config.MechanicsConfig) *Engagement {
	zoc := mc.ZoneOfControlRange
	if zoc <= 0 {
		zoc = 1
	}
	minDamage := ec.MinDamage
	if minDamage <= 0 {
		minDamage = 1
	}
	return &Engagement{grid: g, zoc: zoc, penaltyPct: mc.ArcherPenaltyPct, minDamage: minDamage}
}

func (*Engagement) Name() string { return "engagement" }
func (*Engagement) Tier() int    { return 1 }

func (e *Engagement) Apply(phase battle.Phase, s battle.State, ctx *battle.PipelineContext) battle.State {
	switch phase {
	case battle.PhaseTurnStart, battle.PhasePostAttack:
		return e.recompute(s)
	case battle.PhaseMovement:
		s = e.resolveOpportunity(s, ctx)
		return e.recompute(s)
	case battle.PhasePreAttack:
		return e.applyRangedPenalty(s, ctx)
	case battle.PhaseTurnEnd:
		return e.recompute(e.clearSpent(s))
	}
	return s
}

// recompute rebuilds every engagement flag from scratch. Only the spent
// opportunity-attack flag survives; it has its own lifecycle.
func (e *Engagement) recompute(s battle.State) battle.State {
	ns := s.Clone()
	for i := range ns.Combatants {
		c := &ns.Combatants[i]
		c.Engagement.Engaged = false
		c.Engagement.Pinned = false
		c.Engagement.EngagedBy = nil
		if !c.Alive {
			c.Engagement.OpportunitySpent = false
			continue
		}
		var threats []string
		for j := range ns.Combatants {
			o := &ns.Combatants[j]
			if !o.Alive || o.Team == c.Team || !o.IsMelee() {
				continue
			}
			if grid.Manhattan(c.Pos, o.Pos) <= e.zoc {
				threats = append(threats, o.ID)
			}
		}
		sort.Strings(threats)
		c.Engagement.EngagedBy = threats
		c.Engagement.Engaged = len(threats) >= 1
		c.Engagement.Pinned = len(threats) >= 2
	}
	return ns
}

// resolveOpportunity walks the committed path and lets each melee enemy
// whose zone the mover left strike once. A kill stops the walk; the mover
// ends where it fell.
func (e *Engagement) resolveOpportunity(s battle.State, ctx *battle.PipelineContext) battle.State {
	if ctx.Move == nil || len(ctx.Move.Path) < 2 {
		return s
	}
	mover := s.ByID(ctx.ActorID)
	if mover == nil || !mover.Alive {
		return s
	}

	ns := s.Clone()
	mv := ns.ByID(ctx.ActorID)
	path := ctx.Move.Path

	// Enemies in a fixed order so identical inputs replay identically.
	var enemies []string
	for i := range ns.Combatants {
		c := &ns.Combatants[i]
		if c.Alive && c.Team != mv.Team && c.IsMelee() {
			enemies = append(enemies, c.ID)
		}
	}
	sort.Strings(enemies)

	for step := 0; step+1 < len(path) && mv.Alive; step++ {
		for _, id := range enemies {
			enemy := ns.ByID(id)
			if enemy == nil || !enemy.Alive || enemy.Engagement.OpportunitySpent {
				continue
			}
			inZone := grid.Manhattan(path[step], enemy.Pos) <= e.zoc
			leaves := grid.Manhattan(path[step+1], enemy.Pos) > e.zoc
			if !inZone || !leaves {
				continue
			}
			enemy.Engagement.OpportunitySpent = true

			r := rng.Derive(ns.Seed, ctx.Round, id, "opportunity:"+mv.ID)
			hit := r.Float64() < opportunityHitChance
			ev := battle.EventOpportunityAttack{Round: ctx.Round, Actor: id, Target: mv.ID, Hit: hit}
			if hit {
				base := battle.PhysicalDamage(enemy.EffectiveAtk(), mv.EffectiveArmor(), enemy.Stats.AtkCount, e.minDamage)
				dmg := int(math.Floor(float64(base) * opportunityDamageScale))
				if dmg < e.minDamage {
					dmg = e.minDamage
				}
				out, err := battle.ApplyDamage(mv, dmg)
				if err != nil {
					break
				}
				mv.HP = out.NewHP
				mv.Alive = !out.Died
				ev.Damage = dmg
				ev.Killed = out.Died
			}
			if ctx.Events != nil {
				ctx.Events.Record(ev)
			}
			if !mv.Alive {
				// Fell on the cell it was stepping into.
				mv.Pos = path[step+1]
				if ctx.Events != nil {
					ctx.Events.Record(battle.EventDeath{Round: ctx.Round, Actor: mv.ID, KilledBy: id})
				}
				break
			}
		}
	}
	return ns
}

// applyRangedPenalty scales down the pending attack of an engaged ranged
// combatant. The flags are current: recompute ran at turn start and after
// any movement this turn.
func (e *Engagement) applyRangedPenalty(s battle.State, ctx *battle.PipelineContext) battle.State {
	if ctx.Attack == nil || e.penaltyPct <= 0 {
		return s
	}
	actor := s.ByID(ctx.ActorID)
	if actor == nil || !actor.Alive || !actor.IsRanged() || !actor.Engagement.Engaged {
		return s
	}
	ctx.Attack.DamageScale *= float64(100-e.penaltyPct) / 100
	return s
}

func (e *Engagement) clearSpent(s battle.State) battle.State {
	ns := s.Clone()
	for i := range ns.Combatants {
		ns.Combatants[i].Engagement.OpportunitySpent = false
	}
	return ns
}
