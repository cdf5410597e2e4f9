package combat

// KnockbackMode describes how strongly an enemy resists displacement.
type KnockbackMode int

const (
	KnockbackNormal KnockbackMode = iota
	KnockbackResist
	KnockbackImmune
)

const knockbackResistScale = 0.3

// EffectivePower scales the base knockback power for a target's mode.
func EffectivePower(mode KnockbackMode, power float64) float64 {
	switch mode {
	case KnockbackImmune:
		return 0
	case KnockbackResist:
		return power * knockbackResistScale
	default:
		return power
	}
}

// Knockback returns target pushed away from origin by power. A target sitting
// exactly on origin has no direction and stays put.
func Knockback(origin, target Vec2, power float64) Vec2 {
	if power <= 0 {
		return target
	}
	dir, _ := Direction(origin, target)
	return Vec2{X: target.X + dir.X*power, Y: target.Y + dir.Y*power}
}
