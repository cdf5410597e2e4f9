package combat

import "math"

// ShotConfig bundles the tower statistics that shape a single beam.
type ShotConfig struct {
	Damage         float64
	CritChance     float64
	CritMultiplier float64
	// DistanceMultiplier returns the range bonus for a target distance.
	DistanceMultiplier func(distance float64) float64
}

// ShotResult is the integer damage applied to a target.
type ShotResult struct {
	Dealt int
	Crit  bool
}

// ResolveShot rolls crit and applies distance scaling. The result is floored
// and never below 1.
func ResolveShot(cfg ShotConfig, rng RNG, distance float64) ShotResult {
	dmg := cfg.Damage
	crit := Roll(rng, cfg.CritChance)
	if crit {
		dmg *= cfg.CritMultiplier
	}
	if cfg.DistanceMultiplier != nil {
		dmg *= cfg.DistanceMultiplier(distance)
	}
	dealt := 1
	if !math.IsNaN(dmg) && dmg > 1 {
		if dmg > math.MaxInt32 {
			dmg = math.MaxInt32
		}
		dealt = int(math.Floor(dmg))
	}
	return ShotResult{Dealt: dealt, Crit: crit}
}

// LifestealHeal returns the hit points restored for dealing dealt damage.
func LifestealHeal(dealt float64, percent float64) float64 {
	if percent <= 0 || dealt <= 0 {
		return 0
	}
	return math.Floor(dealt * percent)
}

// MitigateHit applies the block roll to incoming tower damage. A blocked hit
// is reduced by absoluteDefense but never below zero.
func MitigateHit(rng RNG, raw, blockChance, absoluteDefense float64) (float64, bool) {
	if raw < 0 {
		raw = 0
	}
	if !Roll(rng, blockChance) {
		return raw, false
	}
	reduced := raw - absoluteDefense
	if reduced < 0 {
		reduced = 0
	}
	return reduced, true
}
