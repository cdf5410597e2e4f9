package world

import (
	"math"

	"tower-survival/server/internal/combat"
)

var eliteTable = []weighted[Kind]{
	{value: KindVampire, below: 0.33},
	{value: KindRay, below: 0.66},
	{value: KindScatter, below: 1},
}

var normalTable = []weighted[Kind]{
	{value: KindBasic, below: 0.5},
	{value: KindFast, below: 0.7},
	{value: KindTank, below: 0.85},
	{value: KindRanged, below: 1},
}

// selectKind runs the layered spawn draw: boss wave, elite cap, elite roll,
// protector roll, then the normal table.
func (w *World) selectKind() Kind {
	if w.wave%bossWaveInterval == 0 && w.wave != w.lastBossWave && w.bossCount == 0 {
		w.lastBossWave = w.wave
		return KindBoss
	}
	if w.eliteCount >= eliteCap {
		return chooseCumulative(w.rng.Float64(), normalTable)
	}
	draw := w.rng.Float64()
	if draw < eliteChance {
		w.eliteCount++
		return chooseCumulative(w.rng.Float64(), eliteTable)
	}
	if w.protectorCount < protectorCap && draw < protectorChance {
		w.protectorCount++
		return KindProtector
	}
	return chooseCumulative(w.rng.Float64(), normalTable)
}

// spawnEnemy places a freshly selected enemy on the spawn ring.
func (w *World) spawnEnemy() *Enemy {
	kind := w.selectKind()
	angle := randomAngle(w.rng)
	pos := combat.Vec2{X: math.Cos(angle) * SpawnDistance, Y: math.Sin(angle) * SpawnDistance}
	if kind == KindBoss {
		w.bossCount++
	}
	return w.addEnemy(kind, pos)
}

func (w *World) addEnemy(kind Kind, pos combat.Vec2) *Enemy {
	e := newEnemy(w.nextEnemyID, kind, pos)
	w.nextEnemyID++
	w.enemies = append(w.enemies, e)
	return e
}

func (w *World) advanceSpawner(dt float64) {
	w.spawnTimer += dt
	if w.spawnTimer >= SpawnIntervalMS && len(w.enemies) < EnemyCap(w.wave) {
		w.spawnEnemy()
		w.spawnTimer = 0
	}
}
