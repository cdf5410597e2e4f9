package world

import (
	"tower-survival/server/internal/combat"
	"tower-survival/server/internal/economy"
	"tower-survival/server/logging"
	combatlog "tower-survival/server/logging/combat"
	economylog "tower-survival/server/logging/economy"
)

const (
	sourceTower  = "tower"
	sourceCursor = "cursor"
	sourceThorns = "thorns"
)

// AttackEffect is a short-lived beam marker with no gameplay effect.
type AttackEffect struct {
	StartedAt      float64
	FromX          float64
	FromY          float64
	ToX            float64
	ToY            float64
	IsCursorAttack bool
}

func (w *World) addEffect(to combat.Vec2, cursor bool) {
	w.effects = append(w.effects, AttackEffect{
		StartedAt:      w.now,
		FromX:          origin.X,
		FromY:          origin.Y,
		ToX:            to.X,
		ToY:            to.Y,
		IsCursorAttack: cursor,
	})
}

func (w *World) expireEffects() {
	kept := w.effects[:0]
	for _, fx := range w.effects {
		if w.now-fx.StartedAt < AttackEffectLifetimeMS {
			kept = append(kept, fx)
		}
	}
	w.effects = kept
}

func (w *World) attackDue() bool {
	return w.now-w.tower.LastAttackAt >= w.tower.AttackInterval
}

// towerAttack fires the auto-attack at the nearest eligible enemies.
func (w *World) towerAttack() {
	candidates := make([]combat.Candidate, 0, len(w.enemies))
	for _, e := range w.enemies {
		candidates = append(candidates, combat.Candidate{ID: e.ID, Pos: e.Pos(), Elite: e.Kind.Elite(), Alive: e.Alive()})
	}
	targets := combat.SelectTargets(origin, w.tower.Range, candidates)
	if len(targets) == 0 {
		return
	}
	up := &w.upgrades
	shots := combat.ShotCount(w.rng, economy.MultishotChance(up), economy.MultishotCount(up), len(targets))
	cfg := combat.ShotConfig{
		Damage:         economy.Damage(up, w.meta),
		CritChance:     economy.CritChance(up, w.meta),
		CritMultiplier: economy.CritMultiplier(up),
		DistanceMultiplier: func(d float64) float64 {
			return economy.DistanceMultiplier(up, d)
		},
	}
	for _, target := range targets[:shots] {
		e := w.enemyByID(target.ID)
		if e == nil {
			continue
		}
		w.addEffect(e.Pos(), false)
		shot := combat.ResolveShot(cfg, w.rng, target.Distance)
		e.HP -= float64(shot.Dealt)
		w.tower.heal(combat.LifestealHeal(float64(shot.Dealt), economy.Lifesteal(up)))
		if combat.Roll(w.rng, economy.KnockbackChance(up)) {
			power := combat.EffectivePower(e.Kind.Knockback(), economy.KnockbackPower(up))
			e.setPos(combat.Knockback(origin, e.Pos(), power))
		}
		if !e.Alive() {
			w.defeatEnemy(e, sourceTower)
		}
	}
}

// CursorAttack spends the once-per-wave active skill on the enemy with id.
// It reports false without consuming the skill when the wave is not active or
// no such enemy exists.
func (w *World) CursorAttack(id int) bool {
	if !w.cursorAvailable || w.phase != PhaseActive {
		return false
	}
	e := w.enemyByID(id)
	if e == nil || !e.Alive() {
		return false
	}
	w.addEffect(e.Pos(), true)
	dmg := w.tower.BaseDamage * cursorDamageFactor
	e.HP -= dmg
	w.tower.heal(combat.LifestealHeal(dmg, economy.Lifesteal(&w.upgrades)))
	combatlog.CursorAttack(w.ctx(), w.publisher, w.tick, e.ref(), combatlog.CursorAttackPayload{Damage: int(dmg)})
	if !e.Alive() {
		w.defeatEnemy(e, sourceCursor)
	}
	w.cursorAvailable = false
	return true
}

// defeatEnemy runs the kill path shared by weapon hits: split, reward, remove.
func (w *World) defeatEnemy(e *Enemy, source string) {
	w.splitEnemy(e)
	w.creditKill(e, source)
	w.removeEnemy(e.ID)
}

func (w *World) creditKill(e *Enemy, source string) {
	coin := e.Kind.CoinDrop()
	w.wallet.Cash += killCashReward
	w.wallet.Coin += coin
	w.stats.CoinRun += coin
	if e.Kind == KindProtector && w.protectorCount > 0 {
		w.protectorCount--
	}
	combatlog.EnemyDefeated(w.ctx(), w.publisher, w.tick, e.ref(), combatlog.EnemyDefeatedPayload{Kind: string(e.Kind), Source: source})
	economylog.RewardCredited(w.ctx(), w.publisher, w.tick, e.ref(), economylog.RewardCreditedPayload{
		EnemyKind: string(e.Kind),
		Cash:      killCashReward,
		Coin:      coin,
	})
}

// splitEnemy spawns the fragments of a dying scatter enemy.
func (w *World) splitEnemy(e *Enemy) {
	if e.Scatter == nil {
		return
	}
	children := combat.SplitChildren(combat.SplitParent{
		Pos:        e.Pos(),
		MaxHP:      e.MaxHP,
		Size:       e.Size,
		Generation: e.Scatter.SplitCount,
		MaxSplits:  e.Scatter.MaxSplits,
	})
	if len(children) == 0 {
		return
	}
	refs := make([]logging.EntityRef, 0, len(children))
	for _, c := range children {
		child := &Enemy{
			ID:      w.nextEnemyID,
			Kind:    e.Kind,
			X:       c.Pos.X,
			Y:       c.Pos.Y,
			HP:      c.HP,
			MaxHP:   c.HP,
			Speed:   e.Speed,
			Size:    c.Size,
			Scatter: &ScatterState{SplitCount: c.Generation, MaxSplits: e.Scatter.MaxSplits},
		}
		w.nextEnemyID++
		w.enemies = append(w.enemies, child)
		refs = append(refs, child.ref())
	}
	combatlog.EnemySplit(w.ctx(), w.publisher, w.tick, e.ref(), refs, combatlog.EnemySplitPayload{
		Kind:       string(e.Kind),
		Generation: e.Scatter.SplitCount + 1,
		Children:   len(children),
	})
}

// resolveContacts damages the tower for every enemy inside its radius and
// removes those enemies. Only enemies finished off by thorns pay out.
func (w *World) resolveContacts() {
	up := &w.upgrades
	for _, e := range append([]*Enemy(nil), w.enemies...) {
		if combat.Distance(origin, e.Pos()) > TowerRadius {
			continue
		}
		dmg, blocked := combat.MitigateHit(w.rng, e.Kind.ContactDamage(), economy.BlockChance(up), economy.AbsoluteDefense(up))
		w.damageTower(dmg, e.Kind)
		thorns := economy.Thorns(up)
		if thorns > 0 {
			e.HP -= thorns
		}
		combatlog.Contact(w.ctx(), w.publisher, w.tick, e.ref(), combatlog.ContactPayload{
			Kind:    string(e.Kind),
			Damage:  dmg,
			Blocked: blocked,
			Thorns:  thorns,
		})
		if !e.Alive() {
			w.creditKill(e, sourceThorns)
		}
		w.removeEnemy(e.ID)
	}
}
