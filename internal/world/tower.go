package world

import (
	"math"

	"tower-survival/server/internal/combat"
	"tower-survival/server/internal/economy"
)

// Tower is the single defended structure at the origin.
type Tower struct {
	HP             float64
	MaxHP          float64
	BaseDamage     float64
	Range          float64
	AttackInterval float64
	// LastAttackAt is the simulation time of the last auto-attack check.
	LastAttackAt float64
}

var origin = combat.Vec2{}

func newTower(up *economy.Levels, meta economy.MetaLevels) Tower {
	t := Tower{BaseDamage: economy.BaseDamage}
	t.recompute(up, meta)
	t.HP = t.MaxHP
	t.LastAttackAt = math.Inf(-1)
	return t
}

// recompute refreshes the derived stats and clamps hp to the new maximum.
func (t *Tower) recompute(up *economy.Levels, meta economy.MetaLevels) {
	t.MaxHP = economy.MaxHP(up, meta)
	t.Range = economy.Range(up, meta)
	t.AttackInterval = float64(economy.AttackInterval(up))
	if t.HP > t.MaxHP {
		t.HP = t.MaxHP
	}
}

func (t *Tower) heal(amount float64) {
	if amount <= 0 || math.IsNaN(amount) {
		return
	}
	t.HP = math.Min(t.MaxHP, t.HP+amount)
}

// damageTower applies amount to the tower and remembers the first source to
// bring it down this tick.
func (w *World) damageTower(amount float64, source Kind) {
	if amount <= 0 || math.IsNaN(amount) {
		return
	}
	alive := w.tower.HP > 0
	w.tower.HP -= amount
	if w.tower.HP < 0 {
		w.tower.HP = 0
	}
	if alive && w.tower.HP <= 0 && w.killer == "" {
		w.killer = source
	}
}
