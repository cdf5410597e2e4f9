package combat

import (
	"math"
	"sort"
)

// RNG is the random source consumed by combat rolls. Implementations must
// return values in [0, 1).
type RNG interface {
	Float64() float64
}

// Roll reports whether a draw from rng falls under chance. A nil source or a
// non-positive chance never succeeds.
func Roll(rng RNG, chance float64) bool {
	if rng == nil || chance <= 0 || math.IsNaN(chance) {
		return false
	}
	return rng.Float64() < chance
}

// Candidate describes an enemy considered by the auto-attack.
type Candidate struct {
	ID    int
	Pos   Vec2
	Elite bool
	Alive bool
}

// Target is an eligible candidate annotated with its distance to the tower.
type Target struct {
	ID       int
	Pos      Vec2
	Distance float64
}

// SelectTargets filters candidates to living, non-elite enemies within reach
// of origin and orders them nearest first. Equal distances keep the input
// order.
func SelectTargets(origin Vec2, reach float64, candidates []Candidate) []Target {
	targets := make([]Target, 0, len(candidates))
	for _, c := range candidates {
		if !c.Alive || c.Elite {
			continue
		}
		d := Distance(origin, c.Pos)
		if d > reach {
			continue
		}
		targets = append(targets, Target{ID: c.ID, Pos: c.Pos, Distance: d})
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Distance < targets[j].Distance
	})
	return targets
}

// ShotCount decides how many of the eligible targets are hit this cycle.
// The multishot roll is drawn only when there is at least one target.
func ShotCount(rng RNG, chance float64, count, eligible int) int {
	if eligible <= 0 {
		return 0
	}
	if !Roll(rng, chance) {
		return 1
	}
	if count < 1 {
		count = 1
	}
	if count > eligible {
		return eligible
	}
	return count
}
