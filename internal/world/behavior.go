package world

import (
	"math"

	"tower-survival/server/internal/combat"
)

// runBehaviors applies per-kind specials and then moves every mobile enemy
// straight toward the origin.
func (w *World) runBehaviors(dt float64) {
	for _, e := range w.enemies {
		dist := combat.Distance(origin, e.Pos())
		switch e.Kind {
		case KindRanged:
			w.rangedBehavior(e, dist, dt)
		case KindRay:
			w.rayBehavior(e, dist, dt)
		case KindVampire:
			w.vampireBehavior(e, dist, dt)
		}
		if !e.Immobile() {
			e.setPos(combat.StepToward(e.Pos(), origin, e.Speed))
		}
	}
}

func (w *World) rangedBehavior(e *Enemy, dist, dt float64) {
	s := e.Ranged
	if s == nil {
		return
	}
	if !s.Stopped && dist <= w.tower.Range*rangedStopRatio {
		s.Stopped = true
	}
	if !s.Stopped {
		return
	}
	s.CooldownMS -= dt
	if s.CooldownMS <= 0 {
		w.fireProjectile(e, rangedShotSpeed, rangedShotDamage, false)
		s.CooldownMS = rangedIntervalMS
	}
}

func (w *World) rayBehavior(e *Enemy, dist, dt float64) {
	s := e.Ray
	if s == nil {
		return
	}
	if !s.Charging && dist >= w.tower.Range*rayBandLow && dist <= w.tower.Range*rayBandHigh {
		s.Charging = true
		s.ChargeMS = 0
	}
	if !s.Charging {
		return
	}
	s.ChargeMS += dt
	if s.ChargeMS >= rayChargeMS {
		w.fireProjectile(e, rayShotSpeed, w.tower.BaseDamage*rayDamageFactor, true)
		s.Charging = false
		s.ChargeMS = 0
	}
}

func (w *World) vampireBehavior(e *Enemy, dist, dt float64) {
	s := e.Vampire
	if s == nil {
		return
	}
	s.CooldownMS -= dt
	if s.CooldownMS > 0 {
		return
	}
	if dist <= vampireReach {
		drain := math.Max(1, math.Floor(w.tower.HP*vampireDrainRatio))
		w.damageTower(drain, e.Kind)
		e.HP = math.Min(e.MaxHP, e.HP+math.Floor(drain/2))
	}
	s.CooldownMS = vampireIntervalMS
}
