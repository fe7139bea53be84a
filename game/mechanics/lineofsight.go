package mechanics

import (
	"math"

	"github.com/kasuganosora/gridbattle/config"
	"github.com/kasuganosora/gridbattle/game/battle"
	"github.com/kasuganosora/gridbattle/game/grid"
)

// LineOfSight validates ranged attacks at pre-attack. Direct fire needs a
// clear discretized line to the target; a shooter with the arc-fire
// capability lobs over blockers at an accuracy cost. Either way the target
// must sit inside the firing arc around the attacker's facing, which tier 0
// has already turned toward the target.
type LineOfSight struct {
	grid        grid.Grid
	accuracyPct int
	halfArcDeg  float64
}

func NewLineOfSight(g grid.Grid, mc config.MechanicsConfig) *LineOfSight {
	width := mc.FiringArcWidthDeg
	if width <= 0 {
		width = 180
	}
	return &LineOfSight{grid: g, accuracyPct: mc.ArcFireAccuracyPct, halfArcDeg: float64(width) / 2}
}

func (*LineOfSight) Name() string { return "line_of_sight" }
func (*LineOfSight) Tier() int    { return 3 }

func (l *LineOfSight) Apply(phase battle.Phase, s battle.State, ctx *battle.PipelineContext) battle.State {
	if phase != battle.PhasePreAttack || ctx.Attack == nil || ctx.Attack.Invalid {
		return s
	}
	actor := s.ByID(ctx.ActorID)
	target := s.ByID(ctx.Attack.TargetID)
	if actor == nil || !actor.Alive || target == nil || !target.Alive {
		return s
	}
	if !actor.IsRanged() {
		// Adjacent strikes need no sight line.
		return s
	}

	if !l.inFiringArc(actor, target.Pos) {
		ctx.Attack.Invalid = true
		ctx.Attack.Reason = "target outside firing arc"
		return s
	}

	if l.blocked(&s, actor, target) {
		if actor.Sight.ArcFire {
			ctx.Attack.AccuracyPenalty += float64(l.accuracyPct) / 100
		} else {
			ctx.Attack.Invalid = true
			ctx.Attack.Reason = "line of sight blocked"
		}
	}
	return s
}

// inFiringArc checks the angle between the attacker's facing and the
// bearing to the target against the configured half-width.
func (l *LineOfSight) inFiringArc(actor *battle.Combatant, targetPos grid.Cell) bool {
	dx := float64(targetPos.X - actor.Pos.X)
	dy := float64(targetPos.Y - actor.Pos.Y)
	mag := math.Hypot(dx, dy)
	if mag == 0 {
		return true
	}
	fv := actor.Facing.Dir.Vector()
	cos := (dx*float64(fv.X) + dy*float64(fv.Y)) / mag
	deg := math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
	return deg <= l.halfArcDeg+1e-9
}

// blocked reports whether any living combatant other than the endpoints
// stands on the line between attacker and target.
func (l *LineOfSight) blocked(s *battle.State, actor, target *battle.Combatant) bool {
	line := lineCells(actor.Pos, target.Pos)
	if len(line) <= 2 {
		return false
	}
	occupied := s.Occupied(actor.ID, target.ID)
	for _, c := range line[1 : len(line)-1] {
		if occupied[c] {
			return true
		}
	}
	return false
}

// lineCells traces the Bresenham line from a to b inclusive.
func lineCells(a, b grid.Cell) []grid.Cell {
	dx := absInt(b.X - a.X)
	dy := -absInt(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	cells := []grid.Cell{}
	for {
		cells = append(cells, grid.Cell{X: x, Y: y})
		if x == b.X && y == b.Y {
			return cells
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}
