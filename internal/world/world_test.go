package world

import (
	"crypto/sha256"
	"encoding/json"
	"math"
	"testing"
	"time"

	"tower-survival/server/internal/economy"
	combatlog "tower-survival/server/logging/combat"
	economylog "tower-survival/server/logging/economy"
	"tower-survival/server/logging/lifecycle"
)

const frame = 16 * time.Millisecond

func TestStartWaveFromIdleSpawnsOneEnemy(t *testing.T) {
	w, memory := newTestWorld(t, nil)
	if w.Phase() != PhaseIdle {
		t.Fatalf("expected idle world, got %s", w.Phase())
	}
	if !w.StartWave() {
		t.Fatalf("expected start to succeed")
	}
	if w.Phase() != PhaseActive || w.EnemyCount() != 1 || w.Wave() != 1 {
		t.Fatalf("unexpected state phase=%s enemies=%d wave=%d", w.Phase(), w.EnemyCount(), w.Wave())
	}
	if w.StartWave() {
		t.Fatalf("start while active must be a no-op")
	}
	if w.EnemyCount() != 1 {
		t.Fatalf("no-op start must not spawn, got %d enemies", w.EnemyCount())
	}
	if got := len(memory.OfType(lifecycle.EventWaveStarted)); got != 1 {
		t.Fatalf("expected one wave started event, got %d", got)
	}
	state := w.GameState()
	if !state.IsWaveActive || state.IsWavePaused || state.GameOver {
		t.Fatalf("unexpected flags %+v", state)
	}
}

func TestClearedWavePausesThenResumes(t *testing.T) {
	w, _ := activeWorld(t, nil)
	w.Update(frame)
	if w.Phase() != PhasePaused {
		t.Fatalf("expected paused after clearing, got %s", w.Phase())
	}
	state := w.GameState()
	if state.IsWaveActive || !state.IsWavePaused {
		t.Fatalf("expected paused flags, got active=%v paused=%v", state.IsWaveActive, state.IsWavePaused)
	}

	w.Update(frame)
	if w.Phase() != PhasePaused {
		t.Fatalf("paused wave must wait for a start command, got %s", w.Phase())
	}

	w.cursorAvailable = false
	if !w.StartWave() {
		t.Fatalf("expected resume to succeed")
	}
	if w.Wave() != 2 || w.Phase() != PhaseActive || w.EnemyCount() != 1 {
		t.Fatalf("unexpected resume state wave=%d phase=%s enemies=%d", w.Wave(), w.Phase(), w.EnemyCount())
	}
	if !w.GameState().CursorAttackAvailable {
		t.Fatalf("new wave must re-enable the cursor attack")
	}
}

func TestContactDamagesTowerAndRemovesEnemyWithoutReward(t *testing.T) {
	w, _ := activeWorld(t, nil)
	w.place(KindBasic, TowerRadius+0.4, 0)

	w.Update(frame)

	tower := w.Tower()
	if tower.HP != 90 {
		t.Fatalf("expected tower hp 90 after contact, got %v", tower.HP)
	}
	if w.EnemyCount() != 0 {
		t.Fatalf("expected enemy removed, got %d", w.EnemyCount())
	}
	wallet := w.Wallet()
	if wallet.Cash != 0 || wallet.Coin != 0 {
		t.Fatalf("surviving contact must not pay out, got %+v", wallet)
	}
}

func TestMultishotHitsNearestTargets(t *testing.T) {
	w, _ := activeWorld(t, constantRNG(0))
	w.upgrades.Set(economy.UpgradeMultishotChance, 1)
	w.upgrades.Set(economy.UpgradeMultishotCount, 2)
	far := w.place(KindBasic, 250, 0)
	w.place(KindBasic, 0, 100)
	w.place(KindBasic, 50, 0)
	farther := w.place(KindBasic, 0, -200)
	w.place(KindBasic, -150, 0)

	w.towerAttack()

	hit := 0
	for _, e := range w.enemies {
		switch e.HP {
		case 15:
			hit++
			if e.ID == far.ID || e.ID == farther.ID {
				t.Fatalf("enemy %d is not among the nearest three", e.ID)
			}
		case 20:
		default:
			t.Fatalf("unexpected hp %v on enemy %d", e.HP, e.ID)
		}
	}
	if hit != 3 {
		t.Fatalf("expected 3 enemies hit, got %d", hit)
	}
	if len(w.effects) != 3 {
		t.Fatalf("expected 3 beam effects, got %d", len(w.effects))
	}
}

func TestEliteEnemiesIgnoreAutoAttack(t *testing.T) {
	w, _ := activeWorld(t, constantRNG(0.9))
	vampire := w.place(KindVampire, 100, 0)
	w.towerAttack()
	if vampire.HP != vampire.MaxHP {
		t.Fatalf("elite enemy took auto-attack damage")
	}
}

func TestScatterSplitsUntilGenerationCap(t *testing.T) {
	w, memory := activeWorld(t, nil)
	scatter := w.place(KindScatter, 100, 0)

	if !w.CursorAttack(scatter.ID) {
		t.Fatalf("expected cursor attack to fire")
	}
	if w.EnemyCount() != 2 {
		t.Fatalf("expected 2 fragments, got %d", w.EnemyCount())
	}
	for _, child := range w.enemies {
		if child.HP != 20 || child.MaxHP != 20 || math.Abs(child.Size-44) > 1e-9 || child.Scatter.SplitCount != 1 {
			t.Fatalf("unexpected fragment %+v %+v", child, child.Scatter)
		}
		if child.ID == scatter.ID {
			t.Fatalf("fragment reused parent id")
		}
	}
	if got := len(memory.OfType(combatlog.EventEnemySplit)); got != 1 {
		t.Fatalf("expected one split event, got %d", got)
	}
	wallet := w.Wallet()
	if wallet.Cash != 1 || wallet.Coin != 4 {
		t.Fatalf("expected scatter reward, got %+v", wallet)
	}

	current := w.enemies[len(w.enemies)-1]
	for gen := 1; gen < scatterMaxSplits; gen++ {
		before := w.EnemyCount()
		w.defeatEnemy(current, "test")
		if w.EnemyCount() != before+1 {
			t.Fatalf("generation %d: expected net +1 enemies, got %d -> %d", gen, before, w.EnemyCount())
		}
		current = w.enemies[len(w.enemies)-1]
		if current.Scatter.SplitCount != gen+1 {
			t.Fatalf("expected split count %d, got %d", gen+1, current.Scatter.SplitCount)
		}
	}
	before := w.EnemyCount()
	w.defeatEnemy(current, "test")
	if w.EnemyCount() != before-1 {
		t.Fatalf("capped scatter must not split, got %d -> %d", before, w.EnemyCount())
	}
}

func TestCursorAttackOncePerWave(t *testing.T) {
	w, _ := activeWorld(t, nil)
	tank := w.place(KindTank, 400, 0)
	other := w.place(KindTank, -400, 0)

	if w.CursorAttack(999) {
		t.Fatalf("unknown target must not consume the skill")
	}
	if !w.CursorAttack(tank.ID) {
		t.Fatalf("expected cursor attack to fire")
	}
	if tank.HP != 50 {
		t.Fatalf("expected 50 damage, got hp %v", tank.HP)
	}
	if w.CursorAttack(other.ID) {
		t.Fatalf("cursor attack must be single use per wave")
	}
	if w.GameState().CursorAttackAvailable {
		t.Fatalf("snapshot should report the skill as spent")
	}
}

func TestCursorAttackRequiresActiveWave(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	if w.CursorAttack(0) {
		t.Fatalf("cursor attack must not fire while idle")
	}
}

func TestDefeatAndRetry(t *testing.T) {
	w, memory := newTestWorld(t, nil)
	w.LoadPersistentState(PersistentState{Coin: 100, Gem: 3, Meta: economy.MetaLevels{Health: 1}}.Patch())
	w.StartWave()
	w.enemies = nil
	holdAttack(w)
	w.wallet.Cash = 50
	w.upgrades.Set(economy.UpgradeDamage, 1)
	w.stats.CoinRun = 7
	w.tower.HP = 5
	w.place(KindBasic, TowerRadius+0.2, 0)

	w.Update(frame)

	if w.Phase() != PhaseDefeat {
		t.Fatalf("expected defeat, got %s", w.Phase())
	}
	stats := w.Stats()
	if stats.LastKiller != string(KindBasic) || stats.LastWave != 1 || stats.BestWave != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	state := w.GameState()
	if !state.GameOver || state.IsWaveActive || state.IsWavePaused {
		t.Fatalf("unexpected defeat flags %+v", state)
	}
	if w.StartWave() {
		t.Fatalf("start must be a no-op after defeat")
	}
	if got := len(memory.OfType(lifecycle.EventRunDefeated)); got != 1 {
		t.Fatalf("expected one defeat event, got %d", got)
	}

	w.ResetGame()

	if w.Phase() != PhaseIdle || w.Wave() != 1 {
		t.Fatalf("expected idle wave 1, got %s wave %d", w.Phase(), w.Wave())
	}
	wallet := w.Wallet()
	if wallet.Cash != 0 || wallet.Coin != 100 || wallet.Gem != 3 {
		t.Fatalf("unexpected wallet after retry %+v", wallet)
	}
	if w.meta.Health != 1 {
		t.Fatalf("meta levels must survive retry")
	}
	if w.upgrades.Get(economy.UpgradeDamage) != 0 {
		t.Fatalf("temporary upgrades must reset")
	}
	if w.stats.CoinRun != 0 || w.stats.LastCoinRun != 7 {
		t.Fatalf("unexpected coin run bookkeeping %+v", w.stats)
	}
	if got := w.GameState().Stats.CoinRun; got != 7 {
		t.Fatalf("snapshot should show the banked coin run, got %d", got)
	}
	tower := w.Tower()
	if tower.HP != 150 || tower.MaxHP != 150 {
		t.Fatalf("expected full meta-adjusted hp, got %v/%v", tower.HP, tower.MaxHP)
	}
}

func TestHealthPurchasesAfterDefeatKeepRunOver(t *testing.T) {
	w, _ := activeWorld(t, nil)
	w.stats.CoinRun = 7
	w.tower.HP = 5
	w.place(KindBasic, TowerRadius+0.2, 0)
	w.Update(frame)
	if w.Phase() != PhaseDefeat {
		t.Fatalf("expected defeat, got %s", w.Phase())
	}

	w.wallet.Cash = 100
	w.wallet.Coin = 100
	if !w.Upgrade(economy.UpgradeHealth) {
		t.Fatalf("expected health upgrade to be bought")
	}
	if !w.BuyMeta(economy.MetaHealth) {
		t.Fatalf("expected meta health to be bought")
	}
	if hp := w.Tower().HP; hp != 0 {
		t.Fatalf("defeated tower must stay at 0 hp, got %v", hp)
	}
	state := w.GameState()
	if w.Phase() != PhaseDefeat || !state.GameOver || state.IsWaveActive || state.IsWavePaused {
		t.Fatalf("expected run to stay over, phase=%s state=%+v", w.Phase(), state)
	}
	if w.StartWave() {
		t.Fatalf("start must stay a no-op until retry")
	}

	w.ResetGame()

	if w.stats.LastCoinRun != 7 {
		t.Fatalf("expected defeated run's coins banked, got %d", w.stats.LastCoinRun)
	}
	if got := w.GameState().Stats.CoinRun; got != 7 {
		t.Fatalf("snapshot should show the banked coin run, got %d", got)
	}
	tower := w.Tower()
	if tower.HP != tower.MaxHP || tower.MaxHP != 150 {
		t.Fatalf("expected full hp with meta health kept, got %v/%v", tower.HP, tower.MaxHP)
	}
}

func TestResetWithoutDefeatDoesNotBank(t *testing.T) {
	w, _ := activeWorld(t, nil)
	w.stats.CoinRun = 4
	w.ResetGame()
	if w.stats.LastCoinRun != 0 {
		t.Fatalf("expected no banking without a defeat, got %d", w.stats.LastCoinRun)
	}
}

func TestUpgradePurchases(t *testing.T) {
	w, memory := newTestWorld(t, nil)

	if w.Upgrade(economy.UpgradeHealth) {
		t.Fatalf("upgrade without cash must fail")
	}
	if w.upgrades.Get(economy.UpgradeHealth) != 0 {
		t.Fatalf("rejected upgrade mutated levels")
	}
	if got := len(memory.OfType(economylog.EventUpgradeRejected)); got != 1 {
		t.Fatalf("expected rejection event, got %d", got)
	}

	w.wallet.Cash = 100
	w.tower.HP = 80
	if !w.Upgrade(economy.UpgradeHealth) {
		t.Fatalf("expected health upgrade to succeed")
	}
	tower := w.Tower()
	if w.Wallet().Cash != 90 || tower.MaxHP != 120 || tower.HP != 100 {
		t.Fatalf("unexpected after health upgrade cash=%d hp=%v/%v", w.Wallet().Cash, tower.HP, tower.MaxHP)
	}

	if !w.Upgrade(economy.UpgradeRange) {
		t.Fatalf("expected range upgrade to succeed")
	}
	if w.Tower().Range != 320 || w.Wallet().Cash != 84 {
		t.Fatalf("unexpected range %v cash %d", w.Tower().Range, w.Wallet().Cash)
	}

	if w.Upgrade(economy.UpgradeType("bogus")) {
		t.Fatalf("unknown upgrade must be rejected")
	}
	if w.Wallet().Cash != 84 {
		t.Fatalf("unknown upgrade spent cash")
	}
}

func TestUpgradeCritChanceStopsAtCap(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	w.wallet.Cash = 1 << 30
	w.meta.CritChance = 5
	w.upgrades.Set(economy.UpgradeCritChance, 8)
	if w.Upgrade(economy.UpgradeCritChance) {
		t.Fatalf("crit chance above 50%% must be rejected")
	}
	if w.Wallet().Cash != 1<<30 {
		t.Fatalf("rejected purchase spent cash")
	}
}

func TestBuyMeta(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	if w.BuyMeta(economy.MetaHealth) {
		t.Fatalf("meta purchase without coin must fail")
	}
	w.wallet.Coin = 20
	w.tower.HP = 90
	if !w.BuyMeta(economy.MetaHealth) {
		t.Fatalf("expected meta health purchase")
	}
	tower := w.Tower()
	if w.Wallet().Coin != 0 || tower.MaxHP != 150 || tower.HP != 140 {
		t.Fatalf("unexpected after meta health coin=%d hp=%v/%v", w.Wallet().Coin, tower.HP, tower.MaxHP)
	}

	w.wallet.Coin = 20
	if !w.BuyMeta(economy.MetaRange) || w.Tower().Range != 310 {
		t.Fatalf("expected meta range to raise range to 310, got %v", w.Tower().Range)
	}

	w.wallet.Gem = 1
	if !w.BuyMeta(economy.MetaCritChance) || w.Wallet().Gem != 0 {
		t.Fatalf("expected gem purchase of crit chance")
	}
	if w.BuyMeta(economy.MetaType("speed")) {
		t.Fatalf("unknown meta type must be rejected")
	}
}

func TestBuyMetaCritWithFullRunCrit(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	w.upgrades.Set(economy.UpgradeCritChance, 10)
	w.wallet.Gem = 100
	if !w.BuyMeta(economy.MetaCritChance) {
		t.Fatalf("expected permanent crit purchase despite run crit at cap")
	}
	if got := economy.CritChance(&w.upgrades, w.meta); got != economy.CritChanceCap {
		t.Fatalf("expected derived crit clamped to cap, got %v", got)
	}
}

func TestPersistentRoundTripIsIdempotent(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	w.LoadPersistentState(PersistentState{
		Coin:     10,
		Gem:      2,
		Meta:     economy.MetaLevels{Range: 2, Health: 1},
		BestWave: 5,
	}.Patch())

	saved := w.PersistentState()
	w.LoadPersistentState(saved.Patch())
	first := w.Tower()
	w.LoadPersistentState(w.PersistentState().Patch())
	second := w.Tower()

	if first.Range != 320 || first.MaxHP != 150 {
		t.Fatalf("unexpected derived stats %+v", first)
	}
	if first != second {
		t.Fatalf("reloading changed the tower: %+v vs %+v", first, second)
	}
	if w.PersistentState() != saved {
		t.Fatalf("reloading changed persistent state")
	}
}

func TestLoadPersistentStateIsTolerant(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	w.LoadPersistentState(PersistentState{Coin: 10, Gem: 2, Meta: economy.MetaLevels{Health: 2}, BestWave: 4}.Patch())
	w.tower.HP = 200

	coin := -5
	health := 0
	w.LoadPersistentState(PersistentPatch{Coin: &coin, Meta: MetaPatch{Health: &health}})

	state := w.PersistentState()
	if state.Coin != 0 || state.Gem != 2 || state.BestWave != 4 {
		t.Fatalf("unexpected state after partial load %+v", state)
	}
	if tower := w.Tower(); tower.MaxHP != 100 || tower.HP != 100 {
		t.Fatalf("expected hp clamped to new max, got %v/%v", tower.HP, tower.MaxHP)
	}
}

func TestRangedEnemyStopsAndFires(t *testing.T) {
	w, _ := activeWorld(t, nil)
	ranged := w.place(KindRanged, 280, 0)

	w.Update(frame)

	if !ranged.Ranged.Stopped || ranged.X != 280 {
		t.Fatalf("expected ranged enemy to stop at 280, got stopped=%v x=%v", ranged.Ranged.Stopped, ranged.X)
	}
	if len(w.projectiles) != 1 || w.projectiles[0].Owner != KindRanged || w.projectiles[0].Damage != rangedShotDamage {
		t.Fatalf("expected one ranged projectile, got %+v", w.projectiles)
	}

	w.Update(frame)
	if len(w.projectiles) != 1 || w.projectiles[0].X != 279 {
		t.Fatalf("expected projectile to advance one pixel, got %+v", w.projectiles)
	}
}

func TestVampireDrainsTower(t *testing.T) {
	w, _ := activeWorld(t, nil)
	vampire := w.place(KindVampire, 40, 0)
	vampire.HP = 30

	w.Update(frame)

	if w.Tower().HP != 95 {
		t.Fatalf("expected 5 drained, got hp %v", w.Tower().HP)
	}
	if vampire.HP != 32 {
		t.Fatalf("expected vampire healed to 32, got %v", vampire.HP)
	}
}

func TestRayChargesAndFires(t *testing.T) {
	w, _ := activeWorld(t, nil)
	ray := w.place(KindRay, 300, 0)

	w.Update(frame)
	if !ray.Ray.Charging || ray.X != 300 {
		t.Fatalf("expected ray to charge in place, got %+v at %v", ray.Ray, ray.X)
	}

	ray.Ray.ChargeMS = rayChargeMS - 10
	w.Update(frame)
	if ray.Ray.Charging {
		t.Fatalf("expected charge to reset after firing")
	}
	if len(w.projectiles) != 1 || !w.projectiles[0].IsRay || w.projectiles[0].Damage != 10 {
		t.Fatalf("expected one ray projectile for 10, got %+v", w.projectiles)
	}
}

func TestRegenAppliesPerWholeSecond(t *testing.T) {
	w, _ := activeWorld(t, nil)
	w.upgrades.Set(economy.UpgradeHealthRegen, 2)
	w.tower.HP = 50
	w.place(KindBasic, SpawnDistance, 0)

	w.Update(500 * time.Millisecond)
	if w.Tower().HP != 50 {
		t.Fatalf("regen must wait for a whole second, got %v", w.Tower().HP)
	}
	w.Update(1500 * time.Millisecond)
	if w.Tower().HP != 54 {
		t.Fatalf("expected two regen steps, got %v", w.Tower().HP)
	}
}

func TestKnockbackRespectsImmunity(t *testing.T) {
	w, _ := activeWorld(t, constantRNG(0))
	w.upgrades.Set(economy.UpgradeKnockbackChance, 1)
	tank := w.place(KindTank, 100, 0)

	w.towerAttack()
	if tank.X != 120 {
		t.Fatalf("expected tank pushed to 120, got %v", tank.X)
	}

	w.removeEnemy(tank.ID)
	boss := w.place(KindBoss, 0, 150)
	w.towerAttack()
	if boss.Y != 150 || boss.HP != boss.MaxHP-5 {
		t.Fatalf("boss should take damage without moving, got y=%v hp=%v", boss.Y, boss.HP)
	}
}

func TestBlockReducesContactDamage(t *testing.T) {
	w, _ := activeWorld(t, constantRNG(0))
	w.upgrades.Set(economy.UpgradeDefenseChance, 1)
	w.upgrades.Set(economy.UpgradeAbsoluteDefense, 2)
	w.place(KindBasic, TowerRadius+0.2, 0)

	w.Update(frame)

	if w.Tower().HP != 96 {
		t.Fatalf("expected blocked contact to deal 4, got hp %v", w.Tower().HP)
	}
}

func TestThornsKillsPayOut(t *testing.T) {
	w, _ := activeWorld(t, nil)
	w.upgrades.Set(economy.UpgradeThorns, 4)
	w.place(KindBasic, TowerRadius+0.2, 0)
	w.place(KindFast, 0, TowerRadius+0.6)

	w.Update(frame)

	if w.Tower().HP != 80 {
		t.Fatalf("expected two contacts, got hp %v", w.Tower().HP)
	}
	wallet := w.Wallet()
	if wallet.Cash != 2 || wallet.Coin != 2 || w.Stats().CoinRun != 2 {
		t.Fatalf("unexpected rewards %+v coinRun=%d", wallet, w.Stats().CoinRun)
	}
}

func TestSelectKindLayers(t *testing.T) {
	t.Run("boss once per boss wave", func(t *testing.T) {
		w, _ := newTestWorld(t, constantRNG(0.9))
		w.wave = 10
		if e := w.spawnEnemy(); e.Kind != KindBoss {
			t.Fatalf("expected boss, got %s", e.Kind)
		}
		if w.bossCount != 1 {
			t.Fatalf("expected boss counter 1, got %d", w.bossCount)
		}
		if kind := w.selectKind(); kind == KindBoss {
			t.Fatalf("boss must spawn once per wave")
		}
	})
	t.Run("elite cap forces normal", func(t *testing.T) {
		w, _ := newTestWorld(t, &scriptedRNG{values: []float64{0}})
		w.eliteCount = eliteCap
		if kind := w.selectKind(); kind != KindBasic {
			t.Fatalf("expected basic, got %s", kind)
		}
	})
	t.Run("elite roll", func(t *testing.T) {
		w, _ := newTestWorld(t, &scriptedRNG{values: []float64{0.1, 0.5}})
		if kind := w.selectKind(); kind != KindRay {
			t.Fatalf("expected ray, got %s", kind)
		}
		if w.eliteCount != 1 {
			t.Fatalf("expected elite counter 1, got %d", w.eliteCount)
		}
	})
	t.Run("protector roll", func(t *testing.T) {
		w, _ := newTestWorld(t, &scriptedRNG{values: []float64{0.2}})
		if kind := w.selectKind(); kind != KindProtector {
			t.Fatalf("expected protector, got %s", kind)
		}
	})
	t.Run("protector cap", func(t *testing.T) {
		w, _ := newTestWorld(t, &scriptedRNG{values: []float64{0.2, 0.9}})
		w.protectorCount = protectorCap
		if kind := w.selectKind(); kind != KindRanged {
			t.Fatalf("expected ranged, got %s", kind)
		}
	})
}

func TestNewEnemyCarriesOnlyItsPayload(t *testing.T) {
	for _, kind := range Kinds {
		e := newEnemy(1, kind, origin)
		payloads := 0
		for _, set := range []bool{e.Ranged != nil, e.Vampire != nil, e.Ray != nil, e.Scatter != nil, e.Protector != nil} {
			if set {
				payloads++
			}
		}
		want := 0
		switch kind {
		case KindRanged, KindVampire, KindRay, KindScatter, KindProtector:
			want = 1
		}
		if payloads != want {
			t.Fatalf("%s: expected %d payloads, got %d", kind, want, payloads)
		}
		if e.HP != e.MaxHP || e.HP <= 0 {
			t.Fatalf("%s: unexpected hp %v/%v", kind, e.HP, e.MaxHP)
		}
	}
}

func TestEnemyIDsAreMonotonicWithinRun(t *testing.T) {
	w, _ := activeWorld(t, nil)
	first := w.place(KindBasic, 500, 0)
	w.enemies = nil
	w.Update(frame)
	w.StartWave()
	if got := w.enemies[0].ID; got <= first.ID {
		t.Fatalf("expected id above %d after resume, got %d", first.ID, got)
	}
}

func runScript(seed string, ticks int) ([][32]byte, *World) {
	w := New(Config{Seed: seed}, Deps{})
	w.StartWave()
	hashes := make([][32]byte, 0, ticks)
	for i := 0; i < ticks; i++ {
		w.Update(frame)
		switch {
		case w.Phase() == PhasePaused:
			w.StartWave()
		case i%400 == 0 && len(w.enemies) > 0:
			w.CursorAttack(w.enemies[0].ID)
		case i%250 == 0:
			w.Upgrade(economy.UpgradeTypes[i/250%len(economy.UpgradeTypes)])
		}
		data, err := json.Marshal(w.GameState())
		if err != nil {
			panic(err)
		}
		hashes = append(hashes, sha256.Sum256(data))
	}
	return hashes, w
}

func TestDeterministicReplay(t *testing.T) {
	const ticks = 3000
	first, _ := runScript("determinism", ticks)
	second, _ := runScript("determinism", ticks)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("snapshots diverged at tick %d", i)
		}
	}
}

func TestInvariantsHoldOverLongRun(t *testing.T) {
	w := New(Config{Seed: "invariants"}, Deps{})
	w.StartWave()
	for i := 0; i < 5000; i++ {
		before := w.Phase()
		w.Update(frame)
		if before == PhaseActive && w.Phase() == PhaseIdle {
			t.Fatalf("tick %d: active wave skipped straight to idle", i)
		}
		tower := w.Tower()
		if tower.HP < 0 || tower.HP > tower.MaxHP {
			t.Fatalf("tick %d: tower hp %v outside [0,%v]", i, tower.HP, tower.MaxHP)
		}
		if w.Phase() == PhaseActive || w.Phase() == PhasePaused {
			var bosses, protectors, elites int
			for _, e := range w.enemies {
				if e.Kind == KindBoss {
					bosses++
				}
				if e.Kind == KindProtector {
					protectors++
				}
				if e.Kind.Elite() {
					elites++
				}
			}
			if bosses != w.bossCount || protectors != w.protectorCount || elites != w.eliteCount {
				t.Fatalf("tick %d: counters drifted", i)
			}
		}
		switch w.Phase() {
		case PhasePaused:
			w.StartWave()
		case PhaseDefeat:
			w.ResetGame()
			w.StartWave()
		}
	}
}
