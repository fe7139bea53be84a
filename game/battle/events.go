package battle

import "github.com/kasuganosora/gridbattle/game/grid"

// Event is one entry of the append-only battle log. The full event sequence
// is a deterministic replay of the battle.
type Event interface {
	EventType() string
}

// Recorder accumulates events in order. The engine owns one per battle and
// shares it with the mechanics pipeline through the pipeline context.
type Recorder struct {
	events []Event
}

// Record appends an event.
func (r *Recorder) Record(e Event) {
	r.events = append(r.events, e)
}

// Events returns the recorded sequence.
func (r *Recorder) Events() []Event {
	return r.events
}

// --- Concrete event types ---

type EventRoundStart struct {
	Round int      `json:"round"`
	Order []string `json:"order"` // initiative order of living combatants
}

func (EventRoundStart) EventType() string { return "round_start" }

type EventMove struct {
	Round int         `json:"round"`
	Actor string      `json:"actor"`
	From  grid.Cell   `json:"from"`
	To    grid.Cell   `json:"to"`
	Path  []grid.Cell `json:"path"`
}

func (EventMove) EventType() string { return "move" }

type EventAttack struct {
	Round  int    `json:"round"`
	Actor  string `json:"actor"`
	Target string `json:"target"`
	Kind   string `json:"kind"` // physical | magic
	Arc    string `json:"arc,omitempty"`
	Damage int    `json:"damage"`
	Dodged bool   `json:"dodged"`
	Missed bool   `json:"missed,omitempty"` // arc-fire accuracy penalty
	Killed bool   `json:"killed"`
}

func (EventAttack) EventType() string { return "attack" }

type EventOpportunityAttack struct {
	Round  int    `json:"round"`
	Actor  string `json:"actor"` // the zone owner taking the free attack
	Target string `json:"target"`
	Hit    bool   `json:"hit"`
	Damage int    `json:"damage"`
	Killed bool   `json:"killed"`
}

func (EventOpportunityAttack) EventType() string { return "opportunity_attack" }

type EventHeal struct {
	Round    int    `json:"round"`
	Actor    string `json:"actor"`
	Target   string `json:"target"`
	Amount   int    `json:"amount"`
	Overheal int    `json:"overheal,omitempty"`
}

func (EventHeal) EventType() string { return "heal" }

type EventDeath struct {
	Round    int    `json:"round"`
	Actor    string `json:"actor"` // who died
	KilledBy string `json:"killed_by,omitempty"`
}

func (EventDeath) EventType() string { return "death" }

type EventAbility struct {
	Round   int    `json:"round"`
	Actor   string `json:"actor"`
	Ability string `json:"ability"`
	Target  string `json:"target,omitempty"`
}

func (EventAbility) EventType() string { return "ability" }

type EventAuraPulse struct {
	Round   int      `json:"round"`
	Source  string   `json:"source"`
	Ability string   `json:"ability"`
	Effect  string   `json:"effect"` // heal | damage
	Targets []string `json:"targets"`
	Amount  int      `json:"amount"`
}

func (EventAuraPulse) EventType() string { return "aura_pulse" }

type EventBattleEnd struct {
	Round   int     `json:"round"`
	Outcome Outcome `json:"outcome"`
}

func (EventBattleEnd) EventType() string { return "battle_end" }
