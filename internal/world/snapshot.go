package world

import (
	"tower-survival/server/internal/economy"
)

// GameState is the read-only projection broadcast to clients after a tick.
type GameState struct {
	Tower                 TowerView                `json:"tower"`
	Cash                  int                      `json:"cash"`
	Coin                  int                      `json:"coin"`
	Gem                   int                      `json:"gem"`
	Wave                  int                      `json:"wave"`
	Meta                  economy.MetaLevels       `json:"meta"`
	MetaCosts             map[string]economy.Price `json:"metaCosts"`
	Upgrades              map[string]int           `json:"upgrades"`
	UpgradeCosts          map[string]int           `json:"upgradeCosts"`
	Enemies               []EnemyView              `json:"enemies"`
	AttackEffects         []EffectView             `json:"attackEffects"`
	Projectiles           []ProjectileView         `json:"projectiles"`
	Stats                 StatsView                `json:"stats"`
	IsWaveActive          bool                     `json:"isWaveActive"`
	IsWavePaused          bool                     `json:"isWavePaused"`
	CursorAttackAvailable bool                     `json:"cursorAttackAvailable"`
	GameOver              bool                     `json:"gameOver"`
}

type TowerView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	HP     float64 `json:"hp"`
	MaxHP  float64 `json:"maxHp"`
	Damage float64 `json:"damage"`
	Range  float64 `json:"range"`
}

// EnemyView carries rounded coordinates and hp.
type EnemyView struct {
	ID             int     `json:"id"`
	X              int     `json:"x"`
	Y              int     `json:"y"`
	HP             int     `json:"hp"`
	MaxHP          float64 `json:"maxHp"`
	Type           Kind    `json:"type"`
	Size           float64 `json:"size"`
	Stopped        bool    `json:"stopped"`
	Charging       bool    `json:"charging"`
	ChargeTime     float64 `json:"chargeTime"`
	ChargeDuration float64 `json:"chargeDuration"`
	HasBarrier     bool    `json:"hasBarrier"`
	IsElite        bool    `json:"isElite"`
}

type EffectView struct {
	FromX          float64 `json:"fromX"`
	FromY          float64 `json:"fromY"`
	ToX            float64 `json:"toX"`
	ToY            float64 `json:"toY"`
	IsCursorAttack bool    `json:"isCursorAttack"`
	StartTime      float64 `json:"startTime"`
}

type ProjectileView struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	TargetX float64 `json:"targetX"`
	TargetY float64 `json:"targetY"`
	IsRay   bool    `json:"isRay"`
}

type StatsView struct {
	LastWave   int    `json:"lastWave"`
	BestWave   int    `json:"bestWave"`
	LastKiller string `json:"lastKiller"`
	// CoinRun shows the previous run's haul after a retry, else the current one.
	CoinRun int `json:"coinRun"`
}

// GameState builds a fresh snapshot; it shares no memory with the world.
func (w *World) GameState() GameState {
	state := GameState{
		Tower: TowerView{
			X:      origin.X,
			Y:      origin.Y,
			HP:     w.tower.HP,
			MaxHP:  w.tower.MaxHP,
			Damage: economy.Damage(&w.upgrades, w.meta),
			Range:  w.tower.Range,
		},
		Cash:          w.wallet.Cash,
		Coin:          w.wallet.Coin,
		Gem:           w.wallet.Gem,
		Wave:          w.wave,
		Meta:          w.meta,
		MetaCosts:     make(map[string]economy.Price, len(economy.MetaTypes)),
		Upgrades:      w.upgrades.Map(),
		UpgradeCosts:  make(map[string]int, len(economy.UpgradeTypes)),
		Enemies:       make([]EnemyView, 0, len(w.enemies)),
		AttackEffects: make([]EffectView, 0, len(w.effects)),
		Projectiles:   make([]ProjectileView, 0, len(w.projectiles)),
		Stats: StatsView{
			LastWave:   w.stats.LastWave,
			BestWave:   w.stats.BestWave,
			LastKiller: w.stats.LastKiller,
			CoinRun:    w.stats.CoinRun,
		},
		IsWaveActive:          w.phase == PhaseActive,
		IsWavePaused:          w.phase == PhasePaused,
		CursorAttackAvailable: w.cursorAvailable,
		GameOver:              w.phase == PhaseDefeat,
	}
	if w.stats.LastCoinRun != 0 {
		state.Stats.CoinRun = w.stats.LastCoinRun
	}
	for _, t := range economy.MetaTypes {
		state.MetaCosts[string(t)] = economy.MetaCost(t, w.meta.Get(t))
	}
	for _, t := range economy.UpgradeTypes {
		state.UpgradeCosts[string(t)] = economy.UpgradeCost(t, w.upgrades.Get(t))
	}
	for _, e := range w.enemies {
		state.Enemies = append(state.Enemies, enemyView(e))
	}
	for _, fx := range w.effects {
		state.AttackEffects = append(state.AttackEffects, EffectView{
			FromX:          fx.FromX,
			FromY:          fx.FromY,
			ToX:            fx.ToX,
			ToY:            fx.ToY,
			IsCursorAttack: fx.IsCursorAttack,
			StartTime:      fx.StartedAt,
		})
	}
	for _, p := range w.projectiles {
		state.Projectiles = append(state.Projectiles, ProjectileView{
			X:       economy.RoundHalfUp(p.X),
			Y:       economy.RoundHalfUp(p.Y),
			TargetX: p.TargetX,
			TargetY: p.TargetY,
			IsRay:   p.IsRay,
		})
	}
	return state
}

func enemyView(e *Enemy) EnemyView {
	view := EnemyView{
		ID:      e.ID,
		X:       economy.RoundHalfUp(e.X),
		Y:       economy.RoundHalfUp(e.Y),
		HP:      economy.RoundHalfUp(e.HP),
		MaxHP:   e.MaxHP,
		Type:    e.Kind,
		Size:    e.Size,
		IsElite: e.Kind.Elite(),
	}
	if e.Ranged != nil {
		view.Stopped = e.Ranged.Stopped
	}
	if e.Ray != nil {
		view.Charging = e.Ray.Charging
		view.ChargeTime = e.Ray.ChargeMS
		view.ChargeDuration = rayChargeMS
	}
	if e.Protector != nil {
		view.HasBarrier = e.Protector.HasBarrier
	}
	return view
}
