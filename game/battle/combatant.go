package battle

import (
	"fmt"

	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

// Team identifies one of the two sides.
type Team int

const (
	TeamA Team = 0
	TeamB Team = 1
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) String() string {
	if t == TeamA {
		return "team_a"
	}
	return "team_b"
}

// Direction is a cardinal facing.
type Direction int

const (
	DirNorth Direction = iota // -Y
	DirEast                   // +X
	DirSouth                  // +Y
	DirWest                   // -X
)

var dirVectors = [4]grid.Cell{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
var dirNames = [4]string{"north", "east", "south", "west"}

// Vector returns the unit cell offset of the direction.
func (d Direction) Vector() grid.Cell { return dirVectors[d] }

func (d Direction) String() string { return dirNames[d] }

// Stats is the core stat block. Values are base values; aura buffs layer on
// top via the Auras sub-record.
type Stats struct {
	HP         int `json:"hp"`
	Atk        int `json:"atk"`
	AtkCount   int `json:"atk_count"`
	Armor      int `json:"armor"`
	Speed      int `json:"speed"`
	Initiative int `json:"initiative"`
	Dodge      int `json:"dodge"` // percent
}

// FacingState is the facing mechanic's per-combatant record.
type FacingState struct {
	Dir Direction `json:"dir"`
}

// EngagementState is the zone-of-control mechanic's per-combatant record.
// It is recomputed from scratch by the engagement processor; nothing else
// writes it.
type EngagementState struct {
	Engaged          bool     `json:"engaged"`
	Pinned           bool     `json:"pinned"` // engaged by two or more
	EngagedBy        []string `json:"engaged_by,omitempty"`
	OpportunitySpent bool     `json:"opportunity_spent,omitempty"`
}

// AuraBuff is one active stat delta granted by a source's ability. Amount is
// always flat here; percentage magnitudes are resolved against the target's
// base stat when the buff is computed.
type AuraBuff struct {
	Source  string `json:"source"`
	Ability string `json:"ability"`
	Stat    string `json:"stat"`
	Amount  int    `json:"amount"`
}

// AuraState is the aura mechanic's per-combatant record.
type AuraState struct {
	Buffs []AuraBuff `json:"buffs,omitempty"`
}

// SightState holds line-of-sight capability flags derived from abilities.
type SightState struct {
	ArcFire bool `json:"arc_fire,omitempty"`
	Taunt   bool `json:"taunt,omitempty"`
}

// Buffable stat names used by AuraBuff.Stat.
const (
	StatAtk        = "atk"
	StatArmor      = "armor"
	StatSpeed      = "speed"
	StatInitiative = "initiative"
	StatDodge      = "dodge"
)

// Combatant is one unit instance in battle. The mechanic sub-records are
// always present in well-typed form even when their mechanic is inactive.
type Combatant struct {
	ID         string   `json:"id"`
	TemplateID string   `json:"template_id"`
	Name       string   `json:"name"`
	Team       Team     `json:"team"`
	Role       string   `json:"role"`
	Stats      Stats    `json:"stats"`
	Range      int      `json:"range"`
	Abilities  []string `json:"abilities,omitempty"`

	Pos   grid.Cell `json:"pos"`
	HP    int       `json:"hp"`
	MaxHP int       `json:"max_hp"`
	Alive bool      `json:"alive"`

	Facing     FacingState     `json:"facing"`
	Engagement EngagementState `json:"engagement"`
	Auras      AuraState       `json:"auras"`
	Sight      SightState      `json:"sight"`
}

// NewCombatant instantiates a template at a deployment cell. Instance IDs
// are stable and ordered: "a0-knight", "b2-archer", so identifier tie-breaks
// follow roster order within a team.
func NewCombatant(tpl *resource.UnitTemplate, abilities map[string]*resource.Ability, team Team, slot int, pos grid.Cell) Combatant {
	prefix := "a"
	facing := DirSouth // low-Y side looks up the board
	if team == TeamB {
		prefix = "b"
		facing = DirNorth
	}
	c := Combatant{
		ID:         fmt.Sprintf("%s%d-%s", prefix, slot, tpl.ID),
		TemplateID: tpl.ID,
		Name:       tpl.Name,
		Team:       team,
		Role:       tpl.Role,
		Stats: Stats{
			HP:         tpl.HP,
			Atk:        tpl.Atk,
			AtkCount:   tpl.AtkCount,
			Armor:      tpl.Armor,
			Speed:      tpl.Speed,
			Initiative: tpl.Initiative,
			Dodge:      tpl.Dodge,
		},
		Range:     tpl.Range,
		Abilities: append([]string(nil), tpl.Abilities...),
		Pos:       pos,
		HP:        tpl.HP,
		MaxHP:     tpl.HP,
		Alive:     tpl.HP > 0,
		Facing:    FacingState{Dir: facing},
	}
	for _, id := range tpl.Abilities {
		a := abilities[id]
		if a == nil {
			continue
		}
		switch a.Kind {
		case resource.AbilityTaunt:
			c.Sight.Taunt = true
		case resource.AbilityArcFire:
			c.Sight.ArcFire = true
		}
	}
	return c
}

// IsMelee reports whether the combatant fights at range 1 and therefore
// projects a zone of control.
func (c *Combatant) IsMelee() bool { return c.Range <= 1 }

// IsRanged reports whether the combatant attacks beyond adjacent cells.
func (c *Combatant) IsRanged() bool { return c.Range > 1 }

func (c *Combatant) auraDelta(stat string) int {
	sum := 0
	for _, b := range c.Auras.Buffs {
		if b.Stat == stat {
			sum += b.Amount
		}
	}
	return sum
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}

// EffectiveAtk is the base attack plus additive aura deltas, floored at 0.
func (c *Combatant) EffectiveAtk() int { return clampMin(c.Stats.Atk+c.auraDelta(StatAtk), 0) }

// EffectiveArmor is the base armor plus additive aura deltas, floored at 0.
func (c *Combatant) EffectiveArmor() int { return clampMin(c.Stats.Armor+c.auraDelta(StatArmor), 0) }

// EffectiveSpeed is the movement budget for one turn, floored at 0.
func (c *Combatant) EffectiveSpeed() int { return clampMin(c.Stats.Speed+c.auraDelta(StatSpeed), 0) }

// EffectiveInitiative orders turns within a round.
func (c *Combatant) EffectiveInitiative() int {
	return clampMin(c.Stats.Initiative+c.auraDelta(StatInitiative), 0)
}

// EffectiveDodge is the dodge percentage before the configured cap.
func (c *Combatant) EffectiveDodge() int { return clampMin(c.Stats.Dodge+c.auraDelta(StatDodge), 0) }

// DamagePotential is the damage one full attack routine can deal before
// armor, used by threat scoring.
func (c *Combatant) DamagePotential() int {
	return c.EffectiveAtk() * clampMin(c.Stats.AtkCount, 1)
}

// HasAbility reports whether the combatant carries the given ability id.
func (c *Combatant) HasAbility(id string) bool {
	for _, a := range c.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

func (c *Combatant) clone() Combatant {
	out := *c
	out.Abilities = append([]string(nil), c.Abilities...)
	out.Engagement.EngagedBy = append([]string(nil), c.Engagement.EngagedBy...)
	out.Auras.Buffs = append([]AuraBuff(nil), c.Auras.Buffs...)
	return out
}
