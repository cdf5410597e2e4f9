package world

import (
	"tower-survival/server/internal/economy"
	"tower-survival/server/logging/lifecycle"
)

// PersistentState is the subset of progress that survives restarts.
type PersistentState struct {
	Coin     int                `json:"coin"`
	Gem      int                `json:"gem"`
	Meta     economy.MetaLevels `json:"meta"`
	BestWave int                `json:"bestWave"`
}

// MetaPatch holds the meta levels present in a partially valid save.
type MetaPatch struct {
	Damage     *int
	Health     *int
	Range      *int
	CritChance *int
}

// PersistentPatch is a decoded save where absent or malformed fields are nil
// and keep their current value when applied.
type PersistentPatch struct {
	Coin     *int
	Gem      *int
	Meta     MetaPatch
	BestWave *int
}

// Patch converts a complete state into a patch that overwrites every field.
func (s PersistentState) Patch() PersistentPatch {
	return PersistentPatch{
		Coin: intPtr(s.Coin),
		Gem:  intPtr(s.Gem),
		Meta: MetaPatch{
			Damage:     intPtr(s.Meta.Damage),
			Health:     intPtr(s.Meta.Health),
			Range:      intPtr(s.Meta.Range),
			CritChance: intPtr(s.Meta.CritChance),
		},
		BestWave: intPtr(s.BestWave),
	}
}

// PersistentState returns the progress to save.
func (w *World) PersistentState() PersistentState {
	return PersistentState{
		Coin:     w.wallet.Coin,
		Gem:      w.wallet.Gem,
		Meta:     w.meta,
		BestWave: w.stats.BestWave,
	}
}

// LoadPersistentState applies p field by field, clamps negatives to zero,
// re-derives range and max hp and clamps current hp to the new max.
func (w *World) LoadPersistentState(p PersistentPatch) {
	apply := func(dst *int, v *int) {
		if v != nil {
			*dst = max(*v, 0)
		}
	}
	apply(&w.wallet.Coin, p.Coin)
	apply(&w.wallet.Gem, p.Gem)
	apply(&w.stats.BestWave, p.BestWave)
	apply(&w.meta.Damage, p.Meta.Damage)
	apply(&w.meta.Health, p.Meta.Health)
	apply(&w.meta.Range, p.Meta.Range)
	apply(&w.meta.CritChance, p.Meta.CritChance)

	w.tower.recompute(&w.upgrades, w.meta)

	lifecycle.PersistentLoaded(w.ctx(), w.publisher, w.tick, lifecycle.PersistentLoadedPayload{
		Coin:     w.wallet.Coin,
		Gem:      w.wallet.Gem,
		BestWave: w.stats.BestWave,
	})
}

func intPtr(v int) *int {
	return &v
}
