package battle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/gridbattle/game/grid"
)

// State is one immutable snapshot of the battle. Transforms clone the state
// and return a new value; prior snapshots stay valid.
type State struct {
	ID         string      `json:"id"`
	Seed       int64       `json:"seed"`
	Round      int         `json:"round"`
	StartedAt  time.Time   `json:"started_at"`
	Combatants []Combatant `json:"combatants"`
}

// NewState creates the round-zero snapshot from the assembled combatants.
// The snapshot ID is derived from the seed so a replay carries the same ID
// as the original run.
func NewState(seed int64, combatants []Combatant) State {
	return State{
		ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("battle:%d", seed))).String(),
		Seed:       seed,
		StartedAt:  time.Now(),
		Combatants: combatants,
	}
}

// Clone deep-copies the snapshot so the copy can be mutated into the next
// state value without touching this one.
func (s State) Clone() State {
	out := s
	out.Combatants = make([]Combatant, len(s.Combatants))
	for i := range s.Combatants {
		out.Combatants[i] = s.Combatants[i].clone()
	}
	return out
}

// ByID returns a pointer into the snapshot's combatant slice, or nil. The
// pointer is only safe to write through on a freshly cloned state.
func (s *State) ByID(id string) *Combatant {
	for i := range s.Combatants {
		if s.Combatants[i].ID == id {
			return &s.Combatants[i]
		}
	}
	return nil
}

// Occupied derives the occupied-cell index from the living combatants,
// skipping any listed IDs. It is always recomputed, never patched.
func (s *State) Occupied(exclude ...string) map[grid.Cell]bool {
	out := make(map[grid.Cell]bool)
	for i := range s.Combatants {
		c := &s.Combatants[i]
		if !c.Alive {
			continue
		}
		skip := false
		for _, id := range exclude {
			if c.ID == id {
				skip = true
				break
			}
		}
		if !skip {
			out[c.Pos] = true
		}
	}
	return out
}

// AliveCount returns the number of living members on the given team.
func (s *State) AliveCount(t Team) int {
	n := 0
	for i := range s.Combatants {
		if s.Combatants[i].Alive && s.Combatants[i].Team == t {
			n++
		}
	}
	return n
}

// Outcome is the terminal result tag.
type Outcome string

const (
	OutcomeOngoing Outcome = ""
	OutcomeTeamA   Outcome = "team_a"
	OutcomeTeamB   Outcome = "team_b"
	OutcomeDraw    Outcome = "draw"
)

// CheckOutcome is the termination predicate. It is pure and callable at any
// point: round cap reached means draw, a wiped side loses, both sides wiped
// is a draw, anything else continues.
func CheckOutcome(s State, maxRounds int) Outcome {
	aAlive := s.AliveCount(TeamA)
	bAlive := s.AliveCount(TeamB)
	switch {
	case aAlive == 0 && bAlive == 0:
		return OutcomeDraw
	case aAlive == 0:
		return OutcomeTeamB
	case bAlive == 0:
		return OutcomeTeamA
	case s.Round >= maxRounds:
		return OutcomeDraw
	default:
		return OutcomeOngoing
	}
}
