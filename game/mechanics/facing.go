package mechanics

import (
	"math"

	"github.com/kasuganosora/gridbattle/game/battle"
	"github.com/kasuganosora/gridbattle/game/grid"
)

// Facing tracks each combatant's cardinal direction. It turns the mover
// along its path, auto-faces an attacker toward its target, and classifies
// from which arc the attack lands on the target.
type Facing struct{}

func NewFacing() *Facing { return &Facing{} }

func (*Facing) Name() string { return "facing" }
func (*Facing) Tier() int    { return 0 }

func (f *Facing) Apply(phase battle.Phase, s battle.State, ctx *battle.PipelineContext) battle.State {
	switch phase {
	case battle.PhaseMovement:
		return f.faceAlongPath(s, ctx)
	case battle.PhasePreAttack:
		return f.faceTarget(s, ctx)
	}
	return s
}

// faceAlongPath points the mover in the direction of its last step.
func (f *Facing) faceAlongPath(s battle.State, ctx *battle.PipelineContext) battle.State {
	if ctx.Move == nil || len(ctx.Move.Path) < 2 {
		return s
	}
	actor := s.ByID(ctx.ActorID)
	if actor == nil || !actor.Alive {
		return s
	}
	path := ctx.Move.Path
	dir, ok := stepDirection(path[len(path)-2], path[len(path)-1])
	if !ok {
		return s
	}
	ns := s.Clone()
	ns.ByID(ctx.ActorID).Facing.Dir = dir
	return ns
}

// faceTarget turns the attacker toward its target and records the attack
// arc relative to the target's current facing. The target does not turn.
func (f *Facing) faceTarget(s battle.State, ctx *battle.PipelineContext) battle.State {
	if ctx.Attack == nil {
		return s
	}
	actor := s.ByID(ctx.ActorID)
	target := s.ByID(ctx.Attack.TargetID)
	if actor == nil || !actor.Alive || target == nil || !target.Alive {
		return s
	}
	ns := s.Clone()
	ac := ns.ByID(ctx.ActorID)
	ac.Facing.Dir = dominantDirection(ac.Pos, target.Pos, ac.Facing.Dir)
	ctx.Attack.Arc = classifyArc(target.Pos, ac.Pos, target.Facing.Dir)
	return ns
}

// stepDirection maps a unit step between orthogonal cells onto a direction.
func stepDirection(from, to grid.Cell) (battle.Direction, bool) {
	switch {
	case to.X > from.X:
		return battle.DirEast, true
	case to.X < from.X:
		return battle.DirWest, true
	case to.Y > from.Y:
		return battle.DirSouth, true
	case to.Y < from.Y:
		return battle.DirNorth, true
	}
	return 0, false
}

// dominantDirection faces from toward to along the longer axis; on an exact
// diagonal the horizontal axis wins. Same cell keeps the current facing.
func dominantDirection(from, to grid.Cell, current battle.Direction) battle.Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if dx == 0 && dy == 0 {
		return current
	}
	if absInt(dx) >= absInt(dy) {
		if dx > 0 {
			return battle.DirEast
		}
		return battle.DirWest
	}
	if dy > 0 {
		return battle.DirSouth
	}
	return battle.DirNorth
}

// classifyArc reports the side the attack lands on: the shortest-arc angle
// between the target-to-attacker bearing and the target's facing. Front is
// within 45 degrees, flank within 135, anything beyond is rear.
func classifyArc(targetPos, attackerPos grid.Cell, facing battle.Direction) battle.Arc {
	dx := float64(attackerPos.X - targetPos.X)
	dy := float64(attackerPos.Y - targetPos.Y)
	mag := math.Hypot(dx, dy)
	if mag == 0 {
		return battle.ArcFront
	}
	fv := facing.Vector()
	cos := (dx*float64(fv.X) + dy*float64(fv.Y)) / mag
	deg := math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
	switch {
	case deg <= 45.0+1e-9:
		return battle.ArcFront
	case deg <= 135.0+1e-9:
		return battle.ArcFlank
	default:
		return battle.ArcRear
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
