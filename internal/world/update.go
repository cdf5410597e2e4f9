package world

import (
	"math"
	"time"

	"tower-survival/server/internal/economy"
)

// Update advances the simulation by dt. Outside an active wave only the
// clock moves.
func (w *World) Update(dt time.Duration) {
	ms := float64(dt) / float64(time.Millisecond)
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	w.tick++
	w.now += ms
	if w.phase != PhaseActive {
		return
	}
	w.killer = ""

	w.expireEffects()
	w.advanceProjectiles(ms)
	w.applyRegen(ms)
	w.advanceSpawner(ms)
	w.runBehaviors(ms)
	w.resolveContacts()
	if w.attackDue() {
		w.towerAttack()
		w.tower.LastAttackAt = w.now
	}
	w.recount()
	w.settleWave()
}

// applyRegen heals once per whole elapsed second.
func (w *World) applyRegen(ms float64) {
	w.regenAccum += ms
	if w.regenAccum < regenStepMS {
		return
	}
	steps := math.Floor(w.regenAccum / regenStepMS)
	w.regenAccum -= steps * regenStepMS
	w.tower.MaxHP = economy.MaxHP(&w.upgrades, w.meta)
	w.tower.heal(economy.RegenPerSecond(&w.upgrades) * steps)
}
