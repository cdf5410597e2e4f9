package world

import (
	"strconv"

	"tower-survival/server/internal/combat"
	"tower-survival/server/logging"
)

// Kind identifies an enemy variant.
type Kind string

const (
	KindBasic     Kind = "basic"
	KindFast      Kind = "fast"
	KindTank      Kind = "tank"
	KindRanged    Kind = "ranged"
	KindBoss      Kind = "boss"
	KindProtector Kind = "protector"
	KindVampire   Kind = "vampire"
	KindRay       Kind = "ray"
	KindScatter   Kind = "scatter"
)

// Kinds lists every enemy variant.
var Kinds = []Kind{KindBasic, KindFast, KindTank, KindRanged, KindBoss, KindProtector, KindVampire, KindRay, KindScatter}

type kindProfile struct {
	hpFactor    float64
	speedFactor float64
	size        float64
	contact     float64
	coin        int
	elite       bool
	knockback   combat.KnockbackMode
}

var profiles = map[Kind]kindProfile{
	KindBasic:     {hpFactor: 1, speedFactor: 1, size: 50, contact: 10, coin: 0},
	KindFast:      {hpFactor: 1, speedFactor: 2, size: 45, contact: 10, coin: 2},
	KindTank:      {hpFactor: 5, speedFactor: 0.5, size: 60, contact: 15, coin: 4},
	KindRanged:    {hpFactor: 1, speedFactor: 1, size: 50, contact: 10, coin: 2},
	KindBoss:      {hpFactor: 20, speedFactor: 0.3, size: 120, contact: 30, coin: 5, knockback: combat.KnockbackImmune},
	KindProtector: {hpFactor: 3, speedFactor: 0.7, size: 70, contact: 10, coin: 3},
	KindVampire:   {hpFactor: 2, speedFactor: 0.8, size: 55, contact: 10, coin: 4, elite: true, knockback: combat.KnockbackResist},
	KindRay:       {hpFactor: 1, speedFactor: 1, size: 60, contact: 10, coin: 4, elite: true, knockback: combat.KnockbackImmune},
	KindScatter:   {hpFactor: 2, speedFactor: 0.7, size: 55, contact: 10, coin: 4, elite: true, knockback: combat.KnockbackResist},
}

func (k Kind) Valid() bool {
	_, ok := profiles[k]
	return ok
}

// Elite reports whether the base weapon ignores this kind.
func (k Kind) Elite() bool { return profiles[k].elite }

func (k Kind) Knockback() combat.KnockbackMode { return profiles[k].knockback }

// ContactDamage is the raw damage dealt when this kind reaches the tower.
func (k Kind) ContactDamage() float64 {
	if p, ok := profiles[k]; ok {
		return p.contact
	}
	return 10
}

// CoinDrop is the coin paid out for a kill.
func (k Kind) CoinDrop() int { return profiles[k].coin }

type RangedState struct {
	Stopped    bool
	CooldownMS float64
}

type VampireState struct {
	CooldownMS float64
}

type RayState struct {
	Charging bool
	ChargeMS float64
}

type ScatterState struct {
	SplitCount int
	MaxSplits  int
}

type ProtectorState struct {
	// HasBarrier is carried for clients; no damage path consults it.
	HasBarrier bool
}

// Enemy is a live attacker. Exactly one payload pointer matching Kind is
// set for kinds that carry extra state; the rest stay nil.
type Enemy struct {
	ID    int
	Kind  Kind
	X     float64
	Y     float64
	HP    float64
	MaxHP float64
	Speed float64
	Size  float64

	Ranged    *RangedState
	Vampire   *VampireState
	Ray       *RayState
	Scatter   *ScatterState
	Protector *ProtectorState
}

// Pos returns the enemy position as a combat vector.
func (e *Enemy) Pos() combat.Vec2 {
	return combat.Vec2{X: e.X, Y: e.Y}
}

func (e *Enemy) setPos(p combat.Vec2) {
	e.X = p.X
	e.Y = p.Y
}

// Alive reports whether the enemy still has hit points.
func (e *Enemy) Alive() bool {
	return e.HP > 0
}

// Immobile reports whether the enemy holds position this tick.
func (e *Enemy) Immobile() bool {
	switch {
	case e.Ranged != nil && e.Ranged.Stopped:
		return true
	case e.Ray != nil && e.Ray.Charging:
		return true
	default:
		return false
	}
}

func (e *Enemy) ref() logging.EntityRef {
	return logging.EntityRef{ID: strconv.Itoa(e.ID), Kind: logging.EntityKindEnemy}
}

// newEnemy builds a full-health enemy of kind at pos with its payload.
func newEnemy(id int, kind Kind, pos combat.Vec2) *Enemy {
	p := profiles[kind]
	hp := enemyBaseHP * p.hpFactor
	e := &Enemy{
		ID:    id,
		Kind:  kind,
		X:     pos.X,
		Y:     pos.Y,
		HP:    hp,
		MaxHP: hp,
		Speed: enemyBaseSpeed * p.speedFactor,
		Size:  p.size,
	}
	switch kind {
	case KindRanged:
		e.Ranged = &RangedState{}
	case KindVampire:
		e.Vampire = &VampireState{}
	case KindRay:
		e.Ray = &RayState{}
	case KindScatter:
		e.Scatter = &ScatterState{MaxSplits: scatterMaxSplits}
	case KindProtector:
		e.Protector = &ProtectorState{HasBarrier: true}
	}
	return e
}
