package battle

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/game/rng"
	"github.com/kasuganosora/gridbattle/resource"
)

// Config carries everything the engine needs besides the initial state. All
// numeric fields fall back to sane values when zero; Pipeline defaults to
// the identity and Logger to a nop logger.
type Config struct {
	Grid        grid.Grid
	MaxRounds   int
	MinDamage   int
	DodgeCap    int
	PathMaxIter int
	Pipeline    Pipeline
	Logger      *zap.Logger
}

// Report is the complete battle result: the outcome tag, the full event
// sequence, and the final state snapshot.
type Report struct {
	Outcome Outcome `json:"outcome"`
	Rounds  int     `json:"rounds"`
	Events  []Event `json:"events"`
	Final   State   `json:"final"`
}

// Instance drives one battle from deployment to outcome. It owns a private
// clone of the initial state; the caller's copy is never touched.
type Instance struct {
	cfg   Config
	state State
	rec   *Recorder
	log   *zap.Logger
}

// NewInstance validates the setup and prepares a run.
func NewInstance(cfg Config, initial State) (*Instance, error) {
	if len(initial.Combatants) == 0 {
		return nil, fmt.Errorf("battle: no combatants")
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 50
	}
	if cfg.MinDamage <= 0 {
		cfg.MinDamage = 1
	}
	if cfg.DodgeCap <= 0 {
		cfg.DodgeCap = 75
	}
	if cfg.PathMaxIter <= 0 {
		cfg.PathMaxIter = 1000
	}
	if cfg.Pipeline == nil {
		cfg.Pipeline = NopPipeline{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	for i := range initial.Combatants {
		c := &initial.Combatants[i]
		if c.Alive && !cfg.Grid.Contains(c.Pos) {
			return nil, fmt.Errorf("battle: %s placed off board at %v", c.ID, c.Pos)
		}
	}
	return &Instance{
		cfg:   cfg,
		state: initial.Clone(),
		rec:   &Recorder{},
		log:   cfg.Logger,
	}, nil
}

// Run plays the battle to completion and returns the report. It only errors
// on contract violations; a battle that reaches the round cap is a draw, not
// a failure.
func (b *Instance) Run() (*Report, error) {
	s := b.state
	outcome := OutcomeOngoing
	rounds := 0

	for round := 1; round <= b.cfg.MaxRounds && outcome == OutcomeOngoing; round++ {
		s.Round = round
		rounds = round
		order := initiativeOrder(&s)
		b.rec.Record(EventRoundStart{Round: round, Order: order})
		b.log.Debug("round start", zap.Int("round", round), zap.Strings("order", order))

		for _, id := range order {
			var err error
			s, err = b.takeTurn(s, round, id)
			if err != nil {
				return nil, err
			}
			if s.AliveCount(TeamA) == 0 || s.AliveCount(TeamB) == 0 {
				outcome = CheckOutcome(s, b.cfg.MaxRounds)
				break
			}
		}
	}
	if outcome == OutcomeOngoing {
		outcome = CheckOutcome(s, b.cfg.MaxRounds)
	}

	b.rec.Record(EventBattleEnd{Round: s.Round, Outcome: outcome})
	b.log.Info("battle finished",
		zap.Int("rounds", rounds),
		zap.String("outcome", string(outcome)),
	)
	return &Report{Outcome: outcome, Rounds: rounds, Events: b.rec.Events(), Final: s}, nil
}

// initiativeOrder lists living combatants by effective initiative descending,
// ids ascending on ties.
func initiativeOrder(s *State) []string {
	ids := make([]string, 0, len(s.Combatants))
	for i := range s.Combatants {
		if s.Combatants[i].Alive {
			ids = append(ids, s.Combatants[i].ID)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, c := s.ByID(ids[i]), s.ByID(ids[j])
		if ai, ci := a.EffectiveInitiative(), c.EffectiveInitiative(); ai != ci {
			return ai > ci
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (b *Instance) takeTurn(s State, round int, actorID string) (State, error) {
	actor := s.ByID(actorID)
	if actor == nil {
		return s, fmt.Errorf("battle: unknown combatant %s", actorID)
	}
	if !actor.Alive {
		// Died earlier this round; the turn yields no events.
		return s, nil
	}

	ctx := &PipelineContext{ActorID: actorID, Round: round, Seed: s.Seed, Events: b.rec}
	s = b.cfg.Pipeline.Apply(PhaseTurnStart, s, ctx)
	if a := s.ByID(actorID); a == nil || !a.Alive {
		// A pulse aura can kill the actor before it acts.
		return b.cfg.Pipeline.Apply(PhaseTurnEnd, s, ctx), nil
	}

	d := Decide(&s, s.ByID(actorID), b.cfg.Grid, b.cfg.PathMaxIter)
	var err error
	switch d.Type {
	case ActionMove:
		s, err = b.execMove(s, round, actorID, d.Path, ctx)
	case ActionAttack:
		s, err = b.execAttack(s, round, actorID, d.TargetID, ctx)
	case ActionHeal:
		s, err = b.execHeal(s, round, actorID, d.TargetID)
	case ActionBuff:
		s, err = b.execBuff(s, round, actorID, d.TargetID)
	default:
		b.log.Debug("turn passed",
			zap.String("actor", actorID),
			zap.String("reason", d.Reason),
		)
	}
	if err != nil {
		return s, err
	}
	return b.cfg.Pipeline.Apply(PhaseTurnEnd, s, ctx), nil
}

// execMove commits the move first and then lets the movement-phase
// processors react to the completed path (opportunity attacks, aura
// recompute). A mover killed mid-path ends up on the strike cell.
func (b *Instance) execMove(s State, round int, actorID string, path []grid.Cell, ctx *PipelineContext) (State, error) {
	if len(path) < 2 {
		return s, fmt.Errorf("battle: %s: move with empty path", actorID)
	}
	ns := s.Clone()
	actor := ns.ByID(actorID)
	if actor == nil || !actor.Alive {
		return s, fmt.Errorf("battle: %s: move by dead combatant", actorID)
	}
	from := actor.Pos
	to := path[len(path)-1]
	actor.Pos = to
	b.rec.Record(EventMove{Round: round, Actor: actorID, From: from, To: to, Path: path})

	ctx.Move = &MoveContext{From: from, To: to, Path: path}
	ns = b.cfg.Pipeline.Apply(PhaseMovement, ns, ctx)
	ctx.Move = nil
	return ns, nil
}

func (b *Instance) execAttack(s State, round int, actorID, targetID string, ctx *PipelineContext) (State, error) {
	actor := s.ByID(actorID)
	target := s.ByID(targetID)
	if target == nil || !target.Alive {
		return s, fmt.Errorf("battle: %s attacks dead target %s", actorID, targetID)
	}

	kind := DamagePhysical
	if actor.Role == resource.RoleMage {
		kind = DamageMagic
	}
	ctx.Attack = NewAttackDescriptor(targetID, kind)
	s = b.cfg.Pipeline.Apply(PhasePreAttack, s, ctx)
	desc := ctx.Attack
	if desc.Invalid {
		b.log.Debug("attack rejected",
			zap.String("actor", actorID),
			zap.String("target", targetID),
			zap.String("reason", desc.Reason),
		)
		ctx.Attack = nil
		return b.reposition(s, round, actorID, targetID, ctx)
	}

	ns := s.Clone()
	ac := ns.ByID(actorID)
	tg := ns.ByID(targetID)
	ev := EventAttack{Round: round, Actor: actorID, Target: targetID, Kind: string(kind), Arc: string(desc.Arc)}

	if desc.AccuracyPenalty > 0 {
		r := rng.Derive(ns.Seed, round, actorID, "accuracy:"+targetID)
		if r.Float64() < desc.AccuracyPenalty {
			ev.Missed = true
			b.rec.Record(ev)
			return b.finishAttack(ns, ctx), nil
		}
	}
	if kind == DamagePhysical {
		r := rng.Derive(ns.Seed, round, actorID, "dodge:"+targetID)
		if RollDodge(r, tg.EffectiveDodge(), b.cfg.DodgeCap) {
			ev.Dodged = true
			b.rec.Record(ev)
			return b.finishAttack(ns, ctx), nil
		}
	}

	var base int
	if kind == DamagePhysical {
		base = PhysicalDamage(ac.EffectiveAtk(), tg.EffectiveArmor(), ac.Stats.AtkCount, b.cfg.MinDamage)
	} else {
		base = MagicDamage(ac.EffectiveAtk(), ac.Stats.AtkCount)
	}
	dmg := base
	if desc.DamageScale != 1.0 {
		dmg = int(math.Floor(float64(base) * desc.DamageScale))
		if dmg < b.cfg.MinDamage {
			dmg = b.cfg.MinDamage
		}
	}

	out, err := ApplyDamage(tg, dmg)
	if err != nil {
		return s, err
	}
	tg.HP = out.NewHP
	tg.Alive = !out.Died
	ev.Damage = dmg
	ev.Killed = out.Died
	b.rec.Record(ev)
	if out.Died {
		b.rec.Record(EventDeath{Round: round, Actor: targetID, KilledBy: actorID})
	}
	return b.finishAttack(ns, ctx), nil
}

func (b *Instance) finishAttack(s State, ctx *PipelineContext) State {
	s = b.cfg.Pipeline.Apply(PhaseAttack, s, ctx)
	s = b.cfg.Pipeline.Apply(PhasePostAttack, s, ctx)
	ctx.Attack = nil
	return s
}

// reposition salvages a rejected attack by stepping toward the target, which
// clears most blocked-line situations on the next turn. Unlike the AI
// approach path it does not stop at attack range.
func (b *Instance) reposition(s State, round int, actorID, targetID string, ctx *PipelineContext) (State, error) {
	actor := s.ByID(actorID)
	target := s.ByID(targetID)
	if actor == nil || target == nil || !target.Alive || actor.Engagement.Pinned {
		return s, nil
	}
	speed := actor.EffectiveSpeed()
	if speed <= 0 {
		return s, nil
	}
	blocked := s.Occupied(actorID)
	path := b.cfg.Grid.ClosestReachable(actor.Pos, target.Pos, blocked, b.cfg.PathMaxIter)
	if len(path) > speed+1 {
		path = path[:speed+1]
	}
	if len(path) < 2 {
		return s, nil
	}
	return b.execMove(s, round, actorID, path, ctx)
}

func (b *Instance) execHeal(s State, round int, actorID, targetID string) (State, error) {
	ns := s.Clone()
	ac := ns.ByID(actorID)
	tg := ns.ByID(targetID)
	if tg == nil || !tg.Alive {
		return s, fmt.Errorf("battle: %s heals dead target %s", actorID, targetID)
	}
	amount := clampMin(ac.EffectiveAtk()*clampMin(ac.Stats.AtkCount, 1), 1)
	out, err := ApplyHeal(tg, amount)
	if err != nil {
		return s, err
	}
	tg.HP = out.NewHP
	b.rec.Record(EventHeal{Round: round, Actor: actorID, Target: targetID, Amount: amount, Overheal: out.Overheal})
	return ns, nil
}

func (b *Instance) execBuff(s State, round int, actorID, targetID string) (State, error) {
	ns := s.Clone()
	tg := ns.ByID(targetID)
	if tg == nil || !tg.Alive {
		return s, fmt.Errorf("battle: %s buffs dead target %s", actorID, targetID)
	}
	amount := clampMin(tg.Stats.Atk/10, 1)
	tg.Auras.Buffs = append(tg.Auras.Buffs, AuraBuff{
		Source:  actorID,
		Ability: AbilityInspire,
		Stat:    StatAtk,
		Amount:  amount,
	})
	b.rec.Record(EventAbility{Round: round, Actor: actorID, Ability: AbilityInspire, Target: targetID})
	return ns, nil
}
