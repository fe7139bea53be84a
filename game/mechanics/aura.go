package mechanics

import (
	"sort"

	"github.com/kasuganosora/gridbattle/config"
	"github.com/kasuganosora/gridbattle/game/battle"
	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

// Aura projects area effects around living sources. Static auras are stat
// buffs recomputed from scratch whenever positions or lives can have
// changed; pulse auras fire periodic one-shot heals or damage on the
// source's own turn start.
type Aura struct {
	grid      grid.Grid
	rangeCap  int
	abilities map[string]*resource.Ability
}

func NewAura(g grid.Grid, mc config.MechanicsConfig, abilities map[string]*resource.Ability) *Aura {
	rc := mc.AuraRangeCap
	if rc <= 0 {
		rc = 3
	}
	return &Aura{grid: g, rangeCap: rc, abilities: abilities}
}

func (*Aura) Name() string { return "aura" }
func (*Aura) Tier() int    { return 2 }

func (a *Aura) Apply(phase battle.Phase, s battle.State, ctx *battle.PipelineContext) battle.State {
	switch phase {
	case battle.PhaseTurnStart:
		s = a.pulse(s, ctx)
		return a.recompute(s)
	case battle.PhaseMovement, battle.PhasePostAttack, battle.PhaseTurnEnd:
		return a.recompute(s)
	}
	return s
}

func (a *Aura) spec(abilityID string) (*resource.Ability, *resource.AuraSpec) {
	ab := a.abilities[abilityID]
	if ab == nil || ab.Kind != resource.AbilityAura || ab.Aura == nil {
		return nil, nil
	}
	return ab, ab.Aura
}

func (a *Aura) effectiveRange(spec *resource.AuraSpec) int {
	r := spec.Range
	if r > a.rangeCap {
		r = a.rangeCap
	}
	if r < 0 {
		r = 0
	}
	return r
}

// recompute drops every static-aura buff and rebuilds the full set from the
// living sources' positions. Buffs owned by non-aura abilities, such as a
// support's inspire, pass through untouched.
func (a *Aura) recompute(s battle.State) battle.State {
	ns := s.Clone()
	for i := range ns.Combatants {
		c := &ns.Combatants[i]
		var kept []battle.AuraBuff
		for _, b := range c.Auras.Buffs {
			if _, spec := a.spec(b.Ability); spec == nil || spec.Mode != resource.AuraStatic {
				kept = append(kept, b)
			}
		}
		c.Auras.Buffs = kept
	}

	for i := range ns.Combatants {
		src := &ns.Combatants[i]
		if !src.Alive {
			continue
		}
		for _, abilityID := range src.Abilities {
			ab, spec := a.spec(abilityID)
			if spec == nil || spec.Mode != resource.AuraStatic || spec.Stat == "" {
				continue
			}
			rng := a.effectiveRange(spec)
			for j := range ns.Combatants {
				tgt := &ns.Combatants[j]
				if !tgt.Alive || !groupMatches(src, tgt, spec.Target) {
					continue
				}
				if grid.Manhattan(src.Pos, tgt.Pos) > rng {
					continue
				}
				tgt.Auras.Buffs = append(tgt.Auras.Buffs, battle.AuraBuff{
					Source:  src.ID,
					Ability: ab.ID,
					Stat:    spec.Stat,
					Amount:  auraAmount(spec, baseStat(tgt, spec.Stat)),
				})
			}
		}
	}
	return ns
}

// pulse fires the acting combatant's pulse auras when the round is divisible
// by their interval. Heals skip the dead; damage can kill.
func (a *Aura) pulse(s battle.State, ctx *battle.PipelineContext) battle.State {
	actor := s.ByID(ctx.ActorID)
	if actor == nil || !actor.Alive {
		return s
	}
	ns := s.Clone()
	src := ns.ByID(ctx.ActorID)
	for _, abilityID := range src.Abilities {
		ab, spec := a.spec(abilityID)
		if spec == nil || spec.Mode != resource.AuraPulse || spec.Interval <= 0 {
			continue
		}
		if ctx.Round%spec.Interval != 0 {
			continue
		}
		rng := a.effectiveRange(spec)
		var hitIDs []string
		amount := 0
		for j := range ns.Combatants {
			tgt := &ns.Combatants[j]
			if !tgt.Alive || !groupMatches(src, tgt, spec.Target) {
				continue
			}
			if grid.Manhattan(src.Pos, tgt.Pos) > rng {
				continue
			}
			amt := auraAmount(spec, tgt.MaxHP)
			if amt < 0 {
				amt = 0
			}
			switch spec.Effect {
			case resource.EffectHeal:
				out, err := battle.ApplyHeal(tgt, amt)
				if err != nil {
					continue
				}
				tgt.HP = out.NewHP
			case resource.EffectDamage:
				out, err := battle.ApplyDamage(tgt, amt)
				if err != nil {
					continue
				}
				tgt.HP = out.NewHP
				tgt.Alive = !out.Died
				if out.Died && ctx.Events != nil {
					ctx.Events.Record(battle.EventDeath{Round: ctx.Round, Actor: tgt.ID, KilledBy: src.ID})
				}
			default:
				continue
			}
			hitIDs = append(hitIDs, tgt.ID)
			amount = amt
		}
		if len(hitIDs) > 0 && ctx.Events != nil {
			sort.Strings(hitIDs)
			ctx.Events.Record(battle.EventAuraPulse{
				Round:   ctx.Round,
				Source:  src.ID,
				Ability: ab.ID,
				Effect:  spec.Effect,
				Targets: hitIDs,
				Amount:  amount,
			})
		}
	}
	return ns
}

// groupMatches applies the aura target group. Allies include the source
// itself; a cell at range zero is still in range.
func groupMatches(src, tgt *battle.Combatant, group string) bool {
	switch group {
	case resource.TargetSelf:
		return src.ID == tgt.ID
	case resource.TargetAllies:
		return src.Team == tgt.Team
	case resource.TargetEnemies:
		return src.Team != tgt.Team
	case resource.TargetAll:
		return true
	}
	return false
}

// auraAmount resolves a flat or percent magnitude against the given base.
func auraAmount(spec *resource.AuraSpec, base int) int {
	if spec.Percent {
		return base * spec.Amount / 100
	}
	return spec.Amount
}

func baseStat(c *battle.Combatant, stat string) int {
	switch stat {
	case battle.StatAtk:
		return c.Stats.Atk
	case battle.StatArmor:
		return c.Stats.Armor
	case battle.StatSpeed:
		return c.Stats.Speed
	case battle.StatInitiative:
		return c.Stats.Initiative
	case battle.StatDodge:
		return c.Stats.Dodge
	}
	return 0
}
