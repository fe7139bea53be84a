// Package mechanics implements the composable battle rule modules: facing,
// engagement, auras, and line of sight. Each module is a Processor hooked
// into fixed turn phases; the Pipeline threads state through them in tier
// order so dependent rules always see their inputs already computed.
package mechanics

import (
	"go.uber.org/zap"

	"github.com/kasuganosora/gridbattle/config"
	"github.com/kasuganosora/gridbattle/game/battle"
	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/resource"
)

// Processor is one rule module. Apply must be total: an unknown phase, a
// missing combatant, or an inapplicable context returns the input state
// unchanged, never an error.
type Processor interface {
	Name() string
	Tier() int
	Apply(phase battle.Phase, s battle.State, ctx *battle.PipelineContext) battle.State
}

// Options configures the standard pipeline.
type Options struct {
	Grid      grid.Grid
	Engine    config.EngineConfig
	Mechanics config.MechanicsConfig
	Abilities map[string]*resource.Ability
	Logger    *zap.Logger
}

// Pipeline applies the registered processors in tier order, fixed intra-tier
// order. It implements battle.Pipeline.
type Pipeline struct {
	procs []Processor
	log   *zap.Logger
}

// New builds the standard pipeline. The registry order is part of the engine
// contract: facing (0), engagement (1), aura (2), line of sight (3). Line of
// sight reads the facing data tier 0 wrote earlier in the same pass.
func New(opt Options) *Pipeline {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &Pipeline{
		procs: []Processor{
			NewFacing(),
			NewEngagement(opt.Grid, opt.Engine, opt.Mechanics),
			NewAura(opt.Grid, opt.Mechanics, opt.Abilities),
			NewLineOfSight(opt.Grid, opt.Mechanics),
		},
		log: opt.Logger,
	}
}

// Processors exposes the ordered registry.
func (p *Pipeline) Processors() []Processor { return p.procs }

// Apply threads state through every processor for the phase. When a
// processor kills the acting combatant, the rest of the pass is skipped:
// effects are not commutative and a dead mover must not keep triggering
// rules written for the living.
func (p *Pipeline) Apply(phase battle.Phase, s battle.State, ctx *battle.PipelineContext) battle.State {
	aliveBefore := false
	if a := s.ByID(ctx.ActorID); a != nil {
		aliveBefore = a.Alive
	}
	for _, proc := range p.procs {
		s = proc.Apply(phase, s, ctx)
		if aliveBefore {
			if a := s.ByID(ctx.ActorID); a == nil || !a.Alive {
				p.log.Debug("pass halted",
					zap.String("phase", string(phase)),
					zap.String("processor", proc.Name()),
					zap.String("actor", ctx.ActorID),
				)
				break
			}
		}
	}
	return s
}
