package world

import (
	"context"

	"tower-survival/server/internal/economy"
	"tower-survival/server/logging"
)

// Config captures the construction-time settings of a World.
type Config struct {
	Seed string
}

func (c Config) normalized() Config {
	if c.Seed == "" {
		c.Seed = DefaultSeed
	}
	return c
}

// Deps bundles runtime dependencies required to construct a World instance.
type Deps struct {
	Publisher logging.Publisher
	RNG       RNGFactory
}

// RunStats summarises finished runs.
type RunStats struct {
	LastWave    int
	BestWave    int
	LastKiller  string
	CoinRun     int
	LastCoinRun int
}

// World is the single authoritative game state. It is not safe for
// concurrent use; the simulation loop is its only writer.
type World struct {
	config    Config
	publisher logging.Publisher
	rng       RNG

	tick uint64
	now  float64

	tower    Tower
	wallet   economy.Wallet
	upgrades economy.Levels
	meta     economy.MetaLevels

	phase           Phase
	wave            int
	enemies         []*Enemy
	projectiles     []Projectile
	effects         []AttackEffect
	nextEnemyID     int
	spawnTimer      float64
	regenAccum      float64
	lastBossWave    int
	cursorAvailable bool

	bossCount      int
	protectorCount int
	eliteCount     int

	stats  RunStats
	killer Kind
}

// New constructs an idle world with a full-health tower at base stats.
func New(cfg Config, deps Deps) *World {
	normalized := cfg.normalized()

	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	w := &World{
		config:          normalized,
		publisher:       publisher,
		rng:             factory(normalized.Seed, "world"),
		wave:            1,
		cursorAvailable: true,
	}
	w.tower = newTower(&w.upgrades, w.meta)
	return w
}

// Config returns the normalized configuration captured at construction time.
func (w *World) Config() Config {
	return w.config
}

// Tick reports how many updates have been applied.
func (w *World) Tick() uint64 {
	return w.tick
}

// Phase reports the current run phase.
func (w *World) Phase() Phase {
	return w.phase
}

// Wave reports the current wave number.
func (w *World) Wave() int {
	return w.wave
}

// Tower returns a copy of the tower state.
func (w *World) Tower() Tower {
	return w.tower
}

// Wallet returns a copy of the currencies.
func (w *World) Wallet() economy.Wallet {
	return w.wallet
}

// Stats returns a copy of the run statistics.
func (w *World) Stats() RunStats {
	return w.stats
}

// EnemyCount reports the number of live enemies.
func (w *World) EnemyCount() int {
	return len(w.enemies)
}

func (w *World) ctx() context.Context {
	return context.Background()
}

func (w *World) enemyByID(id int) *Enemy {
	for _, e := range w.enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (w *World) removeEnemy(id int) {
	kept := w.enemies[:0]
	for _, e := range w.enemies {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(w.enemies); i++ {
		w.enemies[i] = nil
	}
	w.enemies = kept
}

// clearTransient drops every wave-scoped entity and counter.
func (w *World) clearTransient() {
	w.enemies = nil
	w.projectiles = nil
	w.effects = nil
	w.spawnTimer = 0
	w.bossCount = 0
	w.protectorCount = 0
	w.eliteCount = 0
	w.cursorAvailable = true
}

// recount restores the per-kind counters from the live enemy list.
func (w *World) recount() {
	w.bossCount, w.protectorCount, w.eliteCount = 0, 0, 0
	for _, e := range w.enemies {
		switch {
		case e.Kind == KindBoss:
			w.bossCount++
		case e.Kind == KindProtector:
			w.protectorCount++
		}
		if e.Kind.Elite() {
			w.eliteCount++
		}
	}
}
