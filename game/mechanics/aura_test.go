package mechanics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/gridbattle/game/battle"
	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

func testAbilities() map[string]*resource.Ability {
	return map[string]*resource.Ability{
		"banner": {
			ID: "banner", Kind: resource.AbilityAura,
			Aura: &resource.AuraSpec{Mode: resource.AuraStatic, Target: resource.TargetAllies, Range: 2, Stat: battle.StatArmor, Amount: 2},
		},
		"war_cry": {
			ID: "war_cry", Kind: resource.AbilityAura,
			Aura: &resource.AuraSpec{Mode: resource.AuraStatic, Target: resource.TargetAllies, Range: 2, Stat: battle.StatAtk, Amount: 10, Percent: true},
		},
		"mending": {
			ID: "mending", Kind: resource.AbilityAura,
			Aura: &resource.AuraSpec{Mode: resource.AuraPulse, Target: resource.TargetAllies, Range: 2, Interval: 3, Effect: resource.EffectHeal, Amount: 10, Percent: true},
		},
		"miasma": {
			ID: "miasma", Kind: resource.AbilityAura,
			Aura: &resource.AuraSpec{Mode: resource.AuraPulse, Target: resource.TargetEnemies, Range: 2, Interval: 2, Effect: resource.EffectDamage, Amount: 5},
		},
	}
}

func newAura() *Aura {
	return NewAura(testBoard(), testMechCfg(), testAbilities())
}

func buffsFor(c *battle.Combatant, ability string) []battle.AuraBuff {
	var out []battle.AuraBuff
	for _, b := range c.Auras.Buffs {
		if b.Ability == ability {
			out = append(out, b)
		}
	}
	return out
}

func TestStaticAuraRecompute(t *testing.T) {
	a := newAura()
	src := unit("a0-knight", battle.TeamA, resource.RoleTank, 4, 4)
	src.Abilities = []string{"banner"}
	ally := unit("a1-duelist", battle.TeamA, resource.RoleMelee, 4, 5)
	enemy := unit("b0-knight", battle.TeamB, resource.RoleTank, 4, 6)
	s := battle.NewState(1, []battle.Combatant{src, ally, enemy})

	ctx := &battle.PipelineContext{ActorID: "a0-knight", Round: 1, Seed: 1}
	out := a.Apply(battle.PhaseTurnEnd, s, ctx)

	require.Len(t, buffsFor(out.ByID("a1-duelist"), "banner"), 1)
	assert.Equal(t, 5+2, out.ByID("a1-duelist").EffectiveArmor())
	// Allies include the source itself.
	assert.Len(t, buffsFor(out.ByID("a0-knight"), "banner"), 1)
	// Enemies get nothing.
	assert.Empty(t, buffsFor(out.ByID("b0-knight"), "banner"))
}

func TestStaticAuraDropsWhenSourceMovesAway(t *testing.T) {
	a := newAura()
	src := unit("a0-knight", battle.TeamA, resource.RoleTank, 4, 4)
	src.Abilities = []string{"banner"}
	ally := unit("a1-duelist", battle.TeamA, resource.RoleMelee, 4, 5)
	s := battle.NewState(1, []battle.Combatant{src, ally})

	ctx := &battle.PipelineContext{ActorID: "a0-knight", Round: 1, Seed: 1}
	out := a.Apply(battle.PhaseTurnEnd, s, ctx)
	require.Len(t, buffsFor(out.ByID("a1-duelist"), "banner"), 1)

	out.ByID("a0-knight").Pos = grid.Cell{X: 0, Y: 0}
	out = a.Apply(battle.PhaseMovement, out, ctx)
	assert.Empty(t, buffsFor(out.ByID("a1-duelist"), "banner"))
}

func TestStaticAuraDropsWhenSourceDies(t *testing.T) {
	a := newAura()
	src := unit("a0-knight", battle.TeamA, resource.RoleTank, 4, 4)
	src.Abilities = []string{"banner"}
	ally := unit("a1-duelist", battle.TeamA, resource.RoleMelee, 4, 5)
	s := battle.NewState(1, []battle.Combatant{src, ally})

	ctx := &battle.PipelineContext{ActorID: "a0-knight", Round: 1, Seed: 1}
	out := a.Apply(battle.PhaseTurnEnd, s, ctx)
	require.NotEmpty(t, buffsFor(out.ByID("a1-duelist"), "banner"))

	out.ByID("a0-knight").Alive = false
	out.ByID("a0-knight").HP = 0
	out = a.Apply(battle.PhasePostAttack, out, ctx)
	assert.Empty(t, buffsFor(out.ByID("a1-duelist"), "banner"))
}

func TestPercentStaticAuraStacksAdditively(t *testing.T) {
	a := newAura()
	s1 := unit("a0-knight", battle.TeamA, resource.RoleTank, 3, 4)
	s1.Abilities = []string{"war_cry"}
	s2 := unit("a1-knight", battle.TeamA, resource.RoleTank, 5, 4)
	s2.Abilities = []string{"war_cry"}
	ally := unit("a2-duelist", battle.TeamA, resource.RoleMelee, 4, 4)
	s := battle.NewState(1, []battle.Combatant{s1, s2, ally})

	ctx := &battle.PipelineContext{ActorID: "a2-duelist", Round: 1, Seed: 1}
	out := a.Apply(battle.PhaseTurnEnd, s, ctx)

	// 10% of base atk 20 from each of two sources.
	require.Len(t, buffsFor(out.ByID("a2-duelist"), "war_cry"), 2)
	assert.Equal(t, 20+2+2, out.ByID("a2-duelist").EffectiveAtk())
}

func TestNonAuraBuffSurvivesRecompute(t *testing.T) {
	a := newAura()
	ally := unit("a0-duelist", battle.TeamA, resource.RoleMelee, 4, 4)
	ally.Auras.Buffs = []battle.AuraBuff{
		{Source: "a1-cleric", Ability: battle.AbilityInspire, Stat: battle.StatAtk, Amount: 2},
	}
	s := battle.NewState(1, []battle.Combatant{ally})

	ctx := &battle.PipelineContext{ActorID: "a0-duelist", Round: 1, Seed: 1}
	out := a.Apply(battle.PhaseTurnEnd, s, ctx)
	assert.Len(t, buffsFor(out.ByID("a0-duelist"), battle.AbilityInspire), 1)
}

func TestAuraRangeCap(t *testing.T) {
	abilities := map[string]*resource.Ability{
		"wide_banner": {
			ID: "wide_banner", Kind: resource.AbilityAura,
			Aura: &resource.AuraSpec{Mode: resource.AuraStatic, Target: resource.TargetAllies, Range: 6, Stat: battle.StatArmor, Amount: 2},
		},
	}
	a := NewAura(testBoard(), testMechCfg(), abilities)
	src := unit("a0-knight", battle.TeamA, resource.RoleTank, 4, 0)
	src.Abilities = []string{"wide_banner"}
	near := unit("a1-duelist", battle.TeamA, resource.RoleMelee, 4, 3)  // distance 3 = cap
	far := unit("a2-duelist", battle.TeamA, resource.RoleMelee, 4, 5)  // distance 5 > cap
	s := battle.NewState(1, []battle.Combatant{src, near, far})

	ctx := &battle.PipelineContext{ActorID: "a0-knight", Round: 1, Seed: 1}
	out := a.Apply(battle.PhaseTurnEnd, s, ctx)
	assert.NotEmpty(t, buffsFor(out.ByID("a1-duelist"), "wide_banner"))
	assert.Empty(t, buffsFor(out.ByID("a2-duelist"), "wide_banner"))
}

func TestPulseFiresOnInterval(t *testing.T) {
	a := newAura()
	src := unit("a0-cleric", battle.TeamA, resource.RoleSupport, 4, 4)
	src.Abilities = []string{"mending"}
	ally := unit("a1-knight", battle.TeamA, resource.RoleTank, 4, 5)
	s := battle.NewState(1, []battle.Combatant{src, ally})
	s.ByID("a1-knight").HP = 50

	// Round 2: interval 3 does not divide, nothing happens.
	ctx := &battle.PipelineContext{ActorID: "a0-cleric", Round: 2, Seed: 1, Events: &battle.Recorder{}}
	out := a.Apply(battle.PhaseTurnStart, s, ctx)
	assert.Equal(t, 50, out.ByID("a1-knight").HP)
	assert.Empty(t, ctx.Events.Events())

	// Round 3: fires, healing 10% of max hp.
	ctx3 := &battle.PipelineContext{ActorID: "a0-cleric", Round: 3, Seed: 1, Events: &battle.Recorder{}}
	out = a.Apply(battle.PhaseTurnStart, s, ctx3)
	assert.Equal(t, 60, out.ByID("a1-knight").HP)

	var pulses []battle.EventAuraPulse
	for _, e := range ctx3.Events.Events() {
		if p, ok := e.(battle.EventAuraPulse); ok {
			pulses = append(pulses, p)
		}
	}
	require.Len(t, pulses, 1)
	assert.Equal(t, "mending", pulses[0].Ability)
	assert.Equal(t, resource.EffectHeal, pulses[0].Effect)
	assert.Contains(t, pulses[0].Targets, "a1-knight")
}

func TestPulseOnlyOnOwnTurn(t *testing.T) {
	a := newAura()
	src := unit("a0-cleric", battle.TeamA, resource.RoleSupport, 4, 4)
	src.Abilities = []string{"mending"}
	other := unit("a1-knight", battle.TeamA, resource.RoleTank, 4, 5)
	s := battle.NewState(1, []battle.Combatant{src, other})
	s.ByID("a0-cleric").HP = 50

	// The knight's turn start must not fire the cleric's pulse.
	ctx := &battle.PipelineContext{ActorID: "a1-knight", Round: 3, Seed: 1, Events: &battle.Recorder{}}
	out := a.Apply(battle.PhaseTurnStart, s, ctx)
	assert.Equal(t, 50, out.ByID("a0-cleric").HP)
}

func TestPulseDamageCanKill(t *testing.T) {
	a := newAura()
	src := unit("a0-witch", battle.TeamA, resource.RoleMage, 4, 4)
	src.Abilities = []string{"miasma"}
	victim := unit("b0-duelist", battle.TeamB, resource.RoleMelee, 4, 5)
	s := battle.NewState(1, []battle.Combatant{src, victim})
	s.ByID("b0-duelist").HP = 3

	ctx := &battle.PipelineContext{ActorID: "a0-witch", Round: 2, Seed: 1, Events: &battle.Recorder{}}
	out := a.Apply(battle.PhaseTurnStart, s, ctx)

	v := out.ByID("b0-duelist")
	assert.False(t, v.Alive)
	assert.Equal(t, 0, v.HP)

	died := false
	for _, e := range ctx.Events.Events() {
		if d, ok := e.(battle.EventDeath); ok && d.Actor == "b0-duelist" {
			died = true
			assert.Equal(t, "a0-witch", d.KilledBy)
		}
	}
	assert.True(t, died)
}
