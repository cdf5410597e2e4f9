package world

import (
	"tower-survival/server/internal/combat"
	"tower-survival/server/internal/economy"
)

// Projectile is an enemy shot travelling toward the tower.
type Projectile struct {
	X       float64
	Y       float64
	TargetX float64
	TargetY float64
	Speed   float64
	Damage  float64
	IsRay   bool
	Owner   Kind
}

func (w *World) fireProjectile(e *Enemy, speed, damage float64, isRay bool) {
	w.projectiles = append(w.projectiles, Projectile{
		X:       e.X,
		Y:       e.Y,
		TargetX: origin.X,
		TargetY: origin.Y,
		Speed:   speed,
		Damage:  damage,
		IsRay:   isRay,
		Owner:   e.Kind,
	})
}

// advanceProjectiles moves shots by speed per 16 ms frame and resolves the
// ones already within hit distance of their target.
func (w *World) advanceProjectiles(dt float64) {
	kept := w.projectiles[:0]
	for _, p := range w.projectiles {
		pos := combat.Vec2{X: p.X, Y: p.Y}
		target := combat.Vec2{X: p.TargetX, Y: p.TargetY}
		if combat.Distance(pos, target) > projectileHitDistance {
			next := combat.StepToward(pos, target, p.Speed*(dt/frameMS))
			p.X, p.Y = next.X, next.Y
			kept = append(kept, p)
			continue
		}
		dmg, _ := combat.MitigateHit(w.rng, p.Damage, economy.BlockChance(&w.upgrades), economy.AbsoluteDefense(&w.upgrades))
		w.damageTower(dmg, p.Owner)
	}
	w.projectiles = kept
}
