package battle

import "github.com/kasuganosora/gridbattle/game/grid"

// Phase is a fixed hook point inside one combatant's turn. The engine
// invokes the mechanics pipeline at every phase; processors that have
// nothing to do for a phase return the state unchanged.
type Phase string

const (
	PhaseTurnStart  Phase = "turn_start"
	PhaseMovement   Phase = "movement"
	PhasePreAttack  Phase = "pre_attack"
	PhaseAttack     Phase = "attack"
	PhasePostAttack Phase = "post_attack"
	PhaseTurnEnd    Phase = "turn_end"
)

// DamageKind tags how an attack resolves.
type DamageKind string

const (
	DamagePhysical DamageKind = "physical"
	DamageMagic    DamageKind = "magic"
)

// Arc classifies from which side an attack lands relative to the target's
// facing.
type Arc string

const (
	ArcNone  Arc = ""
	ArcFront Arc = "front"
	ArcFlank Arc = "flank"
	ArcRear  Arc = "rear"
)

// MoveContext describes the movement being processed in PhaseMovement. The
// path includes the start cell.
type MoveContext struct {
	From grid.Cell
	To   grid.Cell
	Path []grid.Cell
}

// AttackDescriptor describes the attack being validated and annotated across
// PhasePreAttack. Processors write into it: facing fills Arc, engagement
// scales damage, line of sight may invalidate the attack or add an accuracy
// penalty. The engine reads it after the phase to resolve damage.
type AttackDescriptor struct {
	TargetID        string
	Kind            DamageKind
	Arc             Arc
	DamageScale     float64 // multiplicative, starts at 1.0
	AccuracyPenalty float64 // extra miss chance in [0, 1)
	Invalid         bool
	Reason          string
}

// NewAttackDescriptor returns a descriptor with neutral modifiers.
func NewAttackDescriptor(targetID string, kind DamageKind) *AttackDescriptor {
	return &AttackDescriptor{TargetID: targetID, Kind: kind, DamageScale: 1.0}
}

// PipelineContext carries the acting combatant and the optional action
// descriptors into the pipeline, plus the round's deterministic seed and the
// shared event recorder.
type PipelineContext struct {
	ActorID string
	Round   int
	Seed    int64
	Move    *MoveContext
	Attack  *AttackDescriptor
	Events  *Recorder
}

// Pipeline is the mechanics pipeline contract the engine drives. The zero
// implementation is the identity.
type Pipeline interface {
	Apply(phase Phase, s State, ctx *PipelineContext) State
}

// NopPipeline applies no mechanics; useful for tests and bare simulations.
type NopPipeline struct{}

func (NopPipeline) Apply(_ Phase, s State, _ *PipelineContext) State { return s }
