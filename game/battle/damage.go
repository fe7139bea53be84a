package battle

import (
	"fmt"
	"math/rand"
)

// PhysicalDamage computes armored damage: (atk − armor) per hit times the
// number of hits, floored at the configured minimum so a hit always matters.
func PhysicalDamage(atk, armor, atkCount, minDamage int) int {
	if atkCount < 1 {
		atkCount = 1
	}
	dmg := (atk - armor) * atkCount
	if dmg < minDamage {
		return minDamage
	}
	return dmg
}

// MagicDamage ignores armor entirely.
func MagicDamage(atk, atkCount int) int {
	if atkCount < 1 {
		atkCount = 1
	}
	return atk * atkCount
}

// RollDodge draws one dodge check against the defender's dodge percentage,
// capped by configuration. Magic attacks never call this.
func RollDodge(rng *rand.Rand, dodgePct, capPct int) bool {
	if dodgePct > capPct {
		dodgePct = capPct
	}
	if dodgePct <= 0 {
		return false
	}
	return rng.Intn(100) < dodgePct
}

// DamageOutcome reports the derived facts of one damage application.
type DamageOutcome struct {
	NewHP    int
	Died     bool
	Overkill int
}

// ApplyDamage computes the defender's new hp, clamped at zero, and reports
// death and overkill. It is a pure transform: the input combatant is not
// modified. Damaging a dead combatant is a caller bug and fails fast.
func ApplyDamage(c *Combatant, dmg int) (DamageOutcome, error) {
	if !c.Alive {
		return DamageOutcome{}, fmt.Errorf("battle: apply damage to dead combatant %s", c.ID)
	}
	if dmg < 0 {
		return DamageOutcome{}, fmt.Errorf("battle: negative damage %d on %s", dmg, c.ID)
	}
	newHP := c.HP - dmg
	out := DamageOutcome{NewHP: newHP}
	if newHP <= 0 {
		out.NewHP = 0
		out.Died = true
		out.Overkill = -newHP
	}
	return out, nil
}

// HealOutcome reports the derived facts of one heal application.
type HealOutcome struct {
	NewHP    int
	Overheal int
}

// ApplyHeal computes the target's new hp, clamped at max, and reports
// overheal. Healing a dead combatant is a caller bug and fails fast.
func ApplyHeal(c *Combatant, amount int) (HealOutcome, error) {
	if !c.Alive {
		return HealOutcome{}, fmt.Errorf("battle: heal dead combatant %s", c.ID)
	}
	if amount < 0 {
		return HealOutcome{}, fmt.Errorf("battle: negative heal %d on %s", amount, c.ID)
	}
	newHP := c.HP + amount
	out := HealOutcome{NewHP: newHP}
	if newHP > c.MaxHP {
		out.NewHP = c.MaxHP
		out.Overheal = newHP - c.MaxHP
	}
	return out, nil
}
