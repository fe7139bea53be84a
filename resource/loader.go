// Package resource reads and holds the static content data the battle
// engine consumes: unit stat templates, ability definitions, and roster
// files. The engine itself never touches the filesystem; everything is
// loaded up front and handed over read-only.
package resource

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Roles.
const (
	RoleTank    = "tank"
	RoleMelee   = "melee_dps"
	RoleRanged  = "ranged"
	RoleMage    = "mage"
	RoleSupport = "support"
)

// Ability kinds.
const (
	AbilityTaunt   = "taunt"
	AbilityArcFire = "arc_fire"
	AbilityAura    = "aura"
)

// Aura modes.
const (
	AuraStatic = "static"
	AuraPulse  = "pulse"
)

// Aura target groups.
const (
	TargetAllies  = "allies"
	TargetEnemies = "enemies"
	TargetSelf    = "self"
	TargetAll     = "all"
)

// Aura pulse effects.
const (
	EffectHeal   = "heal"
	EffectDamage = "damage"
)

// UnitTemplate is the static stat block a combatant is instantiated from.
type UnitTemplate struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Role       string   `yaml:"role"`
	HP         int      `yaml:"hp"`
	Atk        int      `yaml:"atk"`
	AtkCount   int      `yaml:"atk_count"`
	Armor      int      `yaml:"armor"`
	Speed      int      `yaml:"speed"`
	Initiative int      `yaml:"initiative"`
	Dodge      int      `yaml:"dodge"`
	Range      int      `yaml:"range"`
	Abilities  []string `yaml:"abilities"`
}

// AuraSpec configures an aura ability: a static or periodic area effect the
// owner projects while alive.
type AuraSpec struct {
	Mode     string `yaml:"mode"`     // static | pulse
	Target   string `yaml:"target"`   // allies | enemies | self | all
	Range    int    `yaml:"range"`
	Stat     string `yaml:"stat"`     // static: buffed stat (atk, armor, speed, dodge, initiative)
	Amount   int    `yaml:"amount"`   // flat value, or percent when Percent is set
	Percent  bool   `yaml:"percent"`  // amount is percent of the target's base stat
	Interval int    `yaml:"interval"` // pulse: fires on rounds divisible by this
	Effect   string `yaml:"effect"`   // pulse: heal | damage
}

// Ability is one entry of the ability database.
type Ability struct {
	ID   string    `yaml:"id"`
	Name string    `yaml:"name"`
	Kind string    `yaml:"kind"` // taunt | arc_fire | aura
	Aura *AuraSpec `yaml:"aura,omitempty"`
}

// Placement puts one template instance on a deployment cell.
type Placement struct {
	Template string `yaml:"template"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
}

// Roster is the input to one battle: two ordered teams plus the seed.
type Roster struct {
	Seed  int64       `yaml:"seed"`
	TeamA []Placement `yaml:"team_a"`
	TeamB []Placement `yaml:"team_b"`
}

// Loader reads and holds all content data files.
type Loader struct {
	DataPath  string
	Templates []*UnitTemplate
	Abilities []*Ability

	templateByID map[string]*UnitTemplate
	abilityByID  map[string]*Ability
}

// NewLoader creates a Loader for the given data directory.
func NewLoader(dataPath string) *Loader {
	return &Loader{
		DataPath:     dataPath,
		templateByID: make(map[string]*UnitTemplate),
		abilityByID:  make(map[string]*Ability),
	}
}

// Load reads units.yaml and abilities.yaml and builds the lookup indexes.
func (l *Loader) Load() error {
	loaders := []func() error{
		l.loadTemplates,
		l.loadAbilities,
	}
	for _, fn := range loaders {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) path(file string) string {
	return filepath.Join(l.DataPath, file)
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("resource: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("resource: parse %s: %w", path, err)
	}
	return nil
}

func (l *Loader) loadTemplates() error {
	var doc struct {
		Units []*UnitTemplate `yaml:"units"`
	}
	if err := loadYAML(l.path("units.yaml"), &doc); err != nil {
		return err
	}
	for _, t := range doc.Units {
		if t == nil || t.ID == "" {
			continue
		}
		if t.AtkCount < 1 {
			t.AtkCount = 1
		}
		if t.Range < 1 {
			t.Range = 1
		}
		l.templateByID[t.ID] = t
	}
	l.Templates = doc.Units
	return nil
}

func (l *Loader) loadAbilities() error {
	var doc struct {
		Abilities []*Ability `yaml:"abilities"`
	}
	if err := loadYAML(l.path("abilities.yaml"), &doc); err != nil {
		return err
	}
	for _, a := range doc.Abilities {
		if a == nil || a.ID == "" {
			continue
		}
		l.abilityByID[a.ID] = a
	}
	l.Abilities = doc.Abilities
	return nil
}

// TemplateByID returns the UnitTemplate with the given ID, or nil.
func (l *Loader) TemplateByID(id string) *UnitTemplate {
	return l.templateByID[id]
}

// AbilityByID returns the Ability with the given ID, or nil.
func (l *Loader) AbilityByID(id string) *Ability {
	return l.abilityByID[id]
}

// AbilityTable returns the id → ability map shared with the mechanics layer.
func (l *Loader) AbilityTable() map[string]*Ability {
	return l.abilityByID
}

// LoadRoster reads a roster file from an arbitrary path.
func LoadRoster(path string) (*Roster, error) {
	var r Roster
	if err := loadYAML(path, &r); err != nil {
		return nil, err
	}
	if len(r.TeamA) == 0 || len(r.TeamB) == 0 {
		return nil, fmt.Errorf("resource: roster %s: both teams must have at least one unit", path)
	}
	return &r, nil
}
