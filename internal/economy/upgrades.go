package economy

// UpgradeType identifies a run-scoped upgrade bought with cash.
type UpgradeType string

const (
	UpgradeDamage          UpgradeType = "damage"
	UpgradeAttackSpeed     UpgradeType = "attackSpeed"
	UpgradeCritChance      UpgradeType = "critChance"
	UpgradeCritDamage      UpgradeType = "critDamage"
	UpgradeRange           UpgradeType = "range"
	UpgradeDamagePerMeter  UpgradeType = "damagePerMeter"
	UpgradeMultishotChance UpgradeType = "multishotChance"
	UpgradeMultishotCount  UpgradeType = "multishotCount"

	UpgradeHealth          UpgradeType = "health"
	UpgradeHealthRegen     UpgradeType = "healthRegen"
	UpgradeDefenseChance   UpgradeType = "defenseChance"
	UpgradeAbsoluteDefense UpgradeType = "absoluteDefense"
	UpgradeThorns          UpgradeType = "thorns"
	UpgradeLifesteal       UpgradeType = "lifesteal"
	UpgradeKnockbackChance UpgradeType = "knockbackChance"
	UpgradeKnockbackPower  UpgradeType = "knockbackPower"
)

// UpgradeTypes lists every temporary upgrade in display order.
var UpgradeTypes = []UpgradeType{
	UpgradeDamage,
	UpgradeAttackSpeed,
	UpgradeCritChance,
	UpgradeCritDamage,
	UpgradeRange,
	UpgradeDamagePerMeter,
	UpgradeMultishotChance,
	UpgradeMultishotCount,
	UpgradeHealth,
	UpgradeHealthRegen,
	UpgradeDefenseChance,
	UpgradeAbsoluteDefense,
	UpgradeThorns,
	UpgradeLifesteal,
	UpgradeKnockbackChance,
	UpgradeKnockbackPower,
}

var maxLevels = map[UpgradeType]int{
	UpgradeDamage:          99,
	UpgradeAttackSpeed:     40,
	UpgradeCritChance:      10,
	UpgradeCritDamage:      40,
	UpgradeRange:           30,
	UpgradeDamagePerMeter:  40,
	UpgradeMultishotChance: 12,
	UpgradeMultishotCount:  7,
	UpgradeHealth:          50,
	UpgradeHealthRegen:     40,
	UpgradeDefenseChance:   17,
	UpgradeAbsoluteDefense: 40,
	UpgradeThorns:          40,
	UpgradeLifesteal:       15,
	UpgradeKnockbackChance: 12,
	UpgradeKnockbackPower:  30,
}

// ParseUpgradeType validates a wire identifier.
func ParseUpgradeType(value string) (UpgradeType, bool) {
	t := UpgradeType(value)
	if _, ok := maxLevels[t]; !ok {
		return "", false
	}
	return t, true
}

// MaxLevel reports the purchase cap for an upgrade. Unknown types report 0.
func MaxLevel(t UpgradeType) int {
	return maxLevels[t]
}

// MetaType identifies a permanent upgrade bought with coin or gem.
type MetaType string

const (
	MetaDamage     MetaType = "damage"
	MetaHealth     MetaType = "health"
	MetaRange      MetaType = "range"
	MetaCritChance MetaType = "critChance"
)

// MetaTypes lists every meta upgrade in display order.
var MetaTypes = []MetaType{MetaDamage, MetaHealth, MetaRange, MetaCritChance}

// ParseMetaType validates a wire identifier.
func ParseMetaType(value string) (MetaType, bool) {
	switch t := MetaType(value); t {
	case MetaDamage, MetaHealth, MetaRange, MetaCritChance:
		return t, true
	default:
		return "", false
	}
}

// Levels holds the run-scoped upgrade levels. The zero value is a fresh run.
type Levels struct {
	values [16]int
}

func upgradeIndex(t UpgradeType) int {
	for i, candidate := range UpgradeTypes {
		if candidate == t {
			return i
		}
	}
	return -1
}

// Get returns the level for t; negative stored values read as zero.
func (l *Levels) Get(t UpgradeType) int {
	if l == nil {
		return 0
	}
	idx := upgradeIndex(t)
	if idx < 0 || l.values[idx] < 0 {
		return 0
	}
	return l.values[idx]
}

// Set stores a level, ignoring unknown types.
func (l *Levels) Set(t UpgradeType, level int) {
	idx := upgradeIndex(t)
	if l == nil || idx < 0 {
		return
	}
	if level < 0 {
		level = 0
	}
	l.values[idx] = level
}

// Reset zeroes every level.
func (l *Levels) Reset() {
	if l == nil {
		return
	}
	l.values = [16]int{}
}

// Map renders the levels keyed by wire identifier.
func (l *Levels) Map() map[string]int {
	out := make(map[string]int, len(UpgradeTypes))
	for _, t := range UpgradeTypes {
		out[string(t)] = l.Get(t)
	}
	return out
}

// MetaLevels holds the permanent upgrade levels.
type MetaLevels struct {
	Damage     int `json:"damage"`
	Health     int `json:"health"`
	Range      int `json:"range"`
	CritChance int `json:"critChance"`
}

// Get returns the level for t; negative stored values read as zero.
func (m MetaLevels) Get(t MetaType) int {
	var v int
	switch t {
	case MetaDamage:
		v = m.Damage
	case MetaHealth:
		v = m.Health
	case MetaRange:
		v = m.Range
	case MetaCritChance:
		v = m.CritChance
	}
	if v < 0 {
		return 0
	}
	return v
}

// With returns a copy of m with t set to level (clamped at zero).
func (m MetaLevels) With(t MetaType, level int) MetaLevels {
	if level < 0 {
		level = 0
	}
	switch t {
	case MetaDamage:
		m.Damage = level
	case MetaHealth:
		m.Health = level
	case MetaRange:
		m.Range = level
	case MetaCritChance:
		m.CritChance = level
	}
	return m
}

// Map renders the levels keyed by wire identifier.
func (m MetaLevels) Map() map[string]int {
	return map[string]int{
		string(MetaDamage):     m.Get(MetaDamage),
		string(MetaHealth):     m.Get(MetaHealth),
		string(MetaRange):      m.Get(MetaRange),
		string(MetaCritChance): m.Get(MetaCritChance),
	}
}
