package economy

import "math"

// Stat names a tower statistic derived from upgrade levels.
type Stat string

const (
	StatDamage          Stat = "damage"
	StatAttackInterval  Stat = "attackInterval"
	StatCritChance      Stat = "critChance"
	StatCritMultiplier  Stat = "critMultiplier"
	StatDamagePerMeter  Stat = "damagePerMeter"
	StatMultishotChance Stat = "multishotChance"
	StatMultishotCount  Stat = "multishotCount"
	StatRange           Stat = "range"
	StatMaxHP           Stat = "maxHp"
	StatRegenPerSecond  Stat = "regenPerSecond"
	StatBlockChance     Stat = "blockChance"
	StatAbsoluteDefense Stat = "absoluteDefense"
	StatThorns          Stat = "thorns"
	StatLifesteal       Stat = "lifesteal"
	StatKnockbackChance Stat = "knockbackChance"
	StatKnockbackPower  Stat = "knockbackPower"
	StatCritChanceUncap Stat = "critChanceUncapped"
)

const (
	BaseDamage         = 5
	BaseRange          = 300
	BaseMaxHP          = 100
	BaseAttackInterval = 1000
	MinAttackInterval  = 200

	CritChanceCap      = 0.5
	MultishotChanceCap = 0.6
	BlockChanceCap     = 0.5
	LifestealCap       = 0.3
	KnockbackChanceCap = 0.6
)

// Derive evaluates stat for the given levels. Distance-dependent stats are
// reported per 100px; use DistanceMultiplier for a concrete distance.
func Derive(stat Stat, up *Levels, meta MetaLevels) float64 {
	switch stat {
	case StatDamage:
		return Damage(up, meta)
	case StatAttackInterval:
		return float64(AttackInterval(up))
	case StatCritChance:
		return CritChance(up, meta)
	case StatCritChanceUncap:
		return rawCritChance(up, meta)
	case StatCritMultiplier:
		return CritMultiplier(up)
	case StatDamagePerMeter:
		return float64(up.Get(UpgradeDamagePerMeter)) * 0.02
	case StatMultishotChance:
		return MultishotChance(up)
	case StatMultishotCount:
		return float64(MultishotCount(up))
	case StatRange:
		return Range(up, meta)
	case StatMaxHP:
		return MaxHP(up, meta)
	case StatRegenPerSecond:
		return RegenPerSecond(up)
	case StatBlockChance:
		return BlockChance(up)
	case StatAbsoluteDefense:
		return AbsoluteDefense(up)
	case StatThorns:
		return Thorns(up)
	case StatLifesteal:
		return Lifesteal(up)
	case StatKnockbackChance:
		return KnockbackChance(up)
	case StatKnockbackPower:
		return KnockbackPower(up)
	default:
		return 0
	}
}

// Damage is the base damage of one beam before crit and distance scaling.
func Damage(up *Levels, meta MetaLevels) float64 {
	return BaseDamage + float64(up.Get(UpgradeDamage))*2 + float64(meta.Get(MetaDamage))*2
}

// AttackInterval is the auto-attack period in milliseconds.
func AttackInterval(up *Levels) int {
	reduced := math.Floor(BaseAttackInterval * math.Pow(0.95, float64(up.Get(UpgradeAttackSpeed))))
	if reduced < MinAttackInterval {
		return MinAttackInterval
	}
	return int(reduced)
}

func rawCritChance(up *Levels, meta MetaLevels) float64 {
	return float64(up.Get(UpgradeCritChance))*0.05 + float64(meta.Get(MetaCritChance))*0.02
}

// CritChance is the combined run and meta crit chance, capped at 50%.
func CritChance(up *Levels, meta MetaLevels) float64 {
	return clamp(rawCritChance(up, meta), 0, CritChanceCap)
}

// CritMultiplier scales a critical hit.
func CritMultiplier(up *Levels) float64 {
	return 1.5 + float64(up.Get(UpgradeCritDamage))*0.25
}

// DistanceMultiplier scales damage up with target distance in pixels.
func DistanceMultiplier(up *Levels, distance float64) float64 {
	if distance < 0 || math.IsNaN(distance) {
		distance = 0
	}
	per100 := float64(up.Get(UpgradeDamagePerMeter)) * 0.02
	return 1 + per100*(distance/100)
}

// MultishotChance is the chance that an attack fires several beams.
func MultishotChance(up *Levels) float64 {
	return clamp(float64(up.Get(UpgradeMultishotChance))*0.05, 0, MultishotChanceCap)
}

// MultishotCount is the number of beams fired on a successful multishot roll.
func MultishotCount(up *Levels) int {
	return 1 + up.Get(UpgradeMultishotCount)
}

// Range is the auto-attack reach in pixels.
func Range(up *Levels, meta MetaLevels) float64 {
	return BaseRange + float64(meta.Get(MetaRange))*10 + float64(up.Get(UpgradeRange))*20
}

// MaxHP is the tower's maximum hit points.
func MaxHP(up *Levels, meta MetaLevels) float64 {
	return BaseMaxHP + float64(meta.Get(MetaHealth))*50 + float64(up.Get(UpgradeHealth))*20
}

// RegenPerSecond is the hp restored per whole second of an active wave.
func RegenPerSecond(up *Levels) float64 {
	return float64(up.Get(UpgradeHealthRegen))
}

// BlockChance is the chance to reduce an incoming hit by AbsoluteDefense.
func BlockChance(up *Levels) float64 {
	return clamp(float64(up.Get(UpgradeDefenseChance))*0.03, 0, BlockChanceCap)
}

// AbsoluteDefense is the flat reduction applied to a blocked hit.
func AbsoluteDefense(up *Levels) float64 {
	return float64(up.Get(UpgradeAbsoluteDefense)) * 3
}

// Thorns is the damage returned to an enemy that touches the tower.
func Thorns(up *Levels) float64 {
	return float64(up.Get(UpgradeThorns)) * 5
}

// Lifesteal is the fraction of dealt damage healed back.
func Lifesteal(up *Levels) float64 {
	return clamp(float64(up.Get(UpgradeLifesteal))*0.02, 0, LifestealCap)
}

// KnockbackChance is the chance that a hit pushes its target back.
func KnockbackChance(up *Levels) float64 {
	return clamp(float64(up.Get(UpgradeKnockbackChance))*0.05, 0, KnockbackChanceCap)
}

// KnockbackPower is the displacement in pixels before resistances.
func KnockbackPower(up *Levels) float64 {
	return 20 + float64(up.Get(UpgradeKnockbackPower))*10
}

func clamp(v, min, max float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
