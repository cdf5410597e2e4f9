package world

const (
	// TowerRadius is the contact distance around the origin.
	TowerRadius = 25.0
	// SpawnDistance is how far from the origin new enemies appear.
	SpawnDistance = 600.0
	// SpawnIntervalMS separates spawns while a wave is active.
	SpawnIntervalMS = 2000.0
	// AttackEffectLifetimeMS is how long a beam marker stays visible.
	AttackEffectLifetimeMS = 200.0

	enemyBaseHP    = 20.0
	enemyBaseSpeed = 0.5

	baseEnemyCap    = 5
	enemyCapPerWave = 2

	bossWaveInterval = 10
	eliteCap         = 3
	protectorCap     = 2
	eliteChance      = 0.15
	protectorChance  = 0.25

	rangedStopRatio   = 0.95
	rangedIntervalMS  = 2000.0
	rangedShotSpeed   = 1.0
	rangedShotDamage  = 5.0
	rayBandLow        = 0.9
	rayBandHigh       = 1.1
	rayChargeMS       = 30000.0
	rayShotSpeed      = 2.0
	rayDamageFactor   = 2.0
	vampireIntervalMS = 3000.0
	vampireReach      = TowerRadius * 2
	vampireDrainRatio = 0.05
	scatterMaxSplits  = 4

	projectileHitDistance = 5.0
	frameMS               = 16.0
	regenStepMS           = 1000.0

	cursorDamageFactor = 10
	killCashReward     = 1
	metaHealthHeal     = 50.0
)

// EnemyCap is the number of simultaneously alive enemies allowed in a wave.
func EnemyCap(wave int) int {
	return baseEnemyCap + wave*enemyCapPerWave
}
