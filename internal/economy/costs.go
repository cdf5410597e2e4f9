package economy

import "math"

type costCurve struct {
	base     float64
	exponent float64
}

var powerCurves = map[UpgradeType]costCurve{
	UpgradeDamage:          {base: 5, exponent: 1.3},
	UpgradeAttackSpeed:     {base: 8, exponent: 1.5},
	UpgradeCritChance:      {base: 10, exponent: 1.8},
	UpgradeCritDamage:      {base: 8, exponent: 1.4},
	UpgradeDamagePerMeter:  {base: 6, exponent: 1.4},
	UpgradeMultishotChance: {base: 12, exponent: 1.7},
	UpgradeHealth:          {base: 10, exponent: 1.2},
	UpgradeHealthRegen:     {base: 8, exponent: 1.35},
	UpgradeDefenseChance:   {base: 12, exponent: 1.6},
	UpgradeAbsoluteDefense: {base: 12, exponent: 1.45},
	UpgradeThorns:          {base: 10, exponent: 1.35},
	UpgradeLifesteal:       {base: 12, exponent: 1.7},
	UpgradeKnockbackChance: {base: 10, exponent: 1.5},
	UpgradeKnockbackPower:  {base: 10, exponent: 1.3},
}

// UpgradeCost returns the cash price of buying the next level of t when the
// current level is level. Unknown types fall back to a linear 5+5L curve.
func UpgradeCost(t UpgradeType, level int) int {
	if level < 0 {
		level = 0
	}
	l := float64(level)
	switch t {
	case UpgradeRange:
		return RoundHalfUp(6*(1+l*0.9) + l*l*0.3)
	case UpgradeMultishotCount:
		return RoundHalfUp(20 * math.Pow(1.6, l))
	}
	curve, ok := powerCurves[t]
	if !ok {
		return 5 + level*5
	}
	return RoundHalfUp(curve.base * math.Pow(1+l, curve.exponent))
}

// Price is a meta upgrade cost split across the persistent currencies.
type Price struct {
	Coin int `json:"coin"`
	Gem  int `json:"gem"`
}

var metaCoinRatios = map[MetaType]float64{
	MetaDamage: 1.8,
	MetaHealth: 1.75,
	MetaRange:  1.7,
}

const metaCoinFloor = 20

// MetaCost returns the price of the next meta level.
func MetaCost(t MetaType, level int) Price {
	if level < 0 {
		level = 0
	}
	l := float64(level)
	if t == MetaCritChance {
		gem := int(math.Ceil(math.Pow(1.5, l) / 2))
		if gem < 1 {
			gem = 1
		}
		return Price{Gem: gem}
	}
	ratio, ok := metaCoinRatios[t]
	if !ok {
		ratio = 1.6
	}
	coin := RoundHalfUp(metaCoinFloor * math.Pow(ratio, l))
	if coin < metaCoinFloor {
		coin = metaCoinFloor
	}
	return Price{Coin: coin}
}

// RoundHalfUp rounds to the nearest integer with halves going toward +Inf,
// matching the rounding the client renders with.
func RoundHalfUp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Floor(v + 0.5)
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	if r < math.MinInt32 {
		return math.MinInt32
	}
	return int(r)
}
