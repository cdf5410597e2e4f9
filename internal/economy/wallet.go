package economy

const critCapEpsilon = 1e-9

// Rejection reasons reported by purchase checks.
const (
	RejectUnknownType       = "unknown_type"
	RejectInsufficientFunds = "insufficient_funds"
	RejectMaxLevel          = "max_level"
	RejectStatCap           = "stat_cap"
)

// Wallet holds the three currencies. Cash is run-scoped; coin and gem persist.
type Wallet struct {
	Cash int
	Coin int
	Gem  int
}

// CanAfford reports whether the wallet covers a meta price.
func (w Wallet) CanAfford(p Price) bool {
	return w.Coin >= p.Coin && w.Gem >= p.Gem
}

// Spend deducts a meta price. It refuses and leaves w untouched when the
// wallet cannot cover it.
func (w *Wallet) Spend(p Price) bool {
	if w == nil || p.Coin < 0 || p.Gem < 0 || !w.CanAfford(p) {
		return false
	}
	w.Coin -= p.Coin
	w.Gem -= p.Gem
	return true
}

// SpendCash deducts a cash price, refusing when funds are short.
func (w *Wallet) SpendCash(amount int) bool {
	if w == nil || amount < 0 || w.Cash < amount {
		return false
	}
	w.Cash -= amount
	return true
}

// CheckUpgrade validates buying the next level of t with the given state.
// It returns the cost and an empty reason when the purchase may proceed.
func CheckUpgrade(t UpgradeType, up *Levels, meta MetaLevels, cash int) (int, string) {
	if _, ok := maxLevels[t]; !ok {
		return 0, RejectUnknownType
	}
	level := up.Get(t)
	cost := UpgradeCost(t, level)
	if cash < cost {
		return cost, RejectInsufficientFunds
	}
	if level >= MaxLevel(t) {
		return cost, RejectMaxLevel
	}
	if t == UpgradeCritChance {
		var next Levels
		if up != nil {
			next = *up
		}
		next.Set(t, level+1)
		if rawCritChance(&next, meta) > CritChanceCap+critCapEpsilon {
			return cost, RejectStatCap
		}
	}
	return cost, ""
}

// CheckMeta validates buying the next meta level of t. The crit cap counts
// meta levels only.
func CheckMeta(t MetaType, meta MetaLevels, wallet Wallet) (Price, string) {
	if _, ok := ParseMetaType(string(t)); !ok {
		return Price{}, RejectUnknownType
	}
	price := MetaCost(t, meta.Get(t))
	if !wallet.CanAfford(price) {
		return price, RejectInsufficientFunds
	}
	if t == MetaCritChance {
		next := meta.With(t, meta.Get(t)+1)
		if rawCritChance(&Levels{}, next) > CritChanceCap+critCapEpsilon {
			return price, RejectStatCap
		}
	}
	return price, ""
}
