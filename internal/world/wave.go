package world

import (
	"math"

	"tower-survival/server/logging/lifecycle"
)

// Phase is the run/wave lifecycle state.
type Phase int

const (
	// PhaseIdle waits for the first wave of a run.
	PhaseIdle Phase = iota
	// PhaseActive spawns and fights enemies.
	PhaseActive
	// PhasePaused follows a cleared wave until the next one is started.
	PhasePaused
	// PhaseDefeat is terminal until Retry.
	PhaseDefeat
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhasePaused:
		return "paused"
	case PhaseDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// StartWave begins the first wave from Idle or the next wave from Paused.
// It reports false while a wave is running or after defeat.
func (w *World) StartWave() bool {
	switch w.phase {
	case PhasePaused:
		w.wave++
		w.clearTransient()
		w.phase = PhaseActive
		w.spawnEnemy()
		lifecycle.WaveStarted(w.ctx(), w.publisher, w.tick, lifecycle.WaveStartedPayload{Wave: w.wave, Resumed: true})
		return true
	case PhaseIdle:
		w.wave = 1
		w.clearTransient()
		w.nextEnemyID = 0
		w.tower.recompute(&w.upgrades, w.meta)
		w.tower.HP = w.tower.MaxHP
		w.phase = PhaseActive
		w.spawnEnemy()
		lifecycle.WaveStarted(w.ctx(), w.publisher, w.tick, lifecycle.WaveStartedPayload{Wave: w.wave})
		return true
	default:
		return false
	}
}

// ResetGame abandons the current run and returns to Idle. Persistent
// currencies, meta levels and best wave survive.
func (w *World) ResetGame() {
	if w.phase == PhaseDefeat {
		w.stats.LastCoinRun = w.stats.CoinRun
	}
	w.clearTransient()
	w.nextEnemyID = 0
	w.regenAccum = 0
	w.lastBossWave = 0
	w.phase = PhaseIdle
	w.wave = 1
	w.wallet.Cash = 0
	w.stats.CoinRun = 0
	w.upgrades.Reset()
	w.tower.recompute(&w.upgrades, w.meta)
	w.tower.HP = w.tower.MaxHP
	w.tower.LastAttackAt = math.Inf(-1)
	lifecycle.RunReset(w.ctx(), w.publisher, w.tick, lifecycle.RunResetPayload{LastCoinRun: w.stats.LastCoinRun})
}

// settleWave applies the end-of-tick transitions: defeat wins over a clear.
func (w *World) settleWave() {
	if w.tower.HP <= 0 {
		killer := string(w.killer)
		if killer == "" {
			killer = "unknown"
		}
		w.stats.LastKiller = killer
		w.stats.LastWave = w.wave
		w.stats.BestWave = max(w.stats.BestWave, w.wave)
		w.phase = PhaseDefeat
		lifecycle.RunDefeated(w.ctx(), w.publisher, w.tick, lifecycle.RunDefeatedPayload{
			Wave:       w.wave,
			BestWave:   w.stats.BestWave,
			LastKiller: killer,
			CoinRun:    w.stats.CoinRun,
		})
		return
	}
	if len(w.enemies) == 0 {
		w.phase = PhasePaused
		lifecycle.WaveCleared(w.ctx(), w.publisher, w.tick, lifecycle.WaveClearedPayload{Wave: w.wave})
	}
}
