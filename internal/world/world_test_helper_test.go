package world

import (
	"math"
	"testing"

	"tower-survival/server/internal/combat"
	"tower-survival/server/logging/sinks"
)

// scriptedRNG replays values and then repeats fallback.
type scriptedRNG struct {
	values   []float64
	next     int
	fallback float64
}

func (r *scriptedRNG) Float64() float64 {
	if r.next < len(r.values) {
		v := r.values[r.next]
		r.next++
		return v
	}
	return r.fallback
}

func constantRNG(v float64) *scriptedRNG {
	return &scriptedRNG{fallback: v}
}

func newTestWorld(t *testing.T, rng RNG) (*World, *sinks.Memory) {
	t.Helper()
	memory := sinks.NewMemory()
	deps := Deps{Publisher: memory}
	if rng != nil {
		deps.RNG = func(string, string) RNG { return rng }
	}
	return New(Config{Seed: "test"}, deps), memory
}

// activeWorld returns a world in an active wave with no enemies on the field
// and the auto-attack held back.
func activeWorld(t *testing.T, rng RNG) (*World, *sinks.Memory) {
	t.Helper()
	w, memory := newTestWorld(t, rng)
	if !w.StartWave() {
		t.Fatalf("expected wave to start")
	}
	w.enemies = nil
	holdAttack(w)
	return w, memory
}

func holdAttack(w *World) {
	w.tower.LastAttackAt = math.Inf(1)
}

func (w *World) place(kind Kind, x, y float64) *Enemy {
	return w.addEnemy(kind, combat.Vec2{X: x, Y: y})
}
