package world

import (
	"tower-survival/server/internal/economy"
	economylog "tower-survival/server/logging/economy"
)

// Upgrade buys the next level of a temporary upgrade with cash. Rejections
// leave the world untouched. A defeated tower stays at zero hp until retry.
func (w *World) Upgrade(t economy.UpgradeType) bool {
	cost, reason := economy.CheckUpgrade(t, &w.upgrades, w.meta, w.wallet.Cash)
	if reason == "" && !w.wallet.SpendCash(cost) {
		reason = economy.RejectInsufficientFunds
	}
	if reason != "" {
		economylog.UpgradeRejected(w.ctx(), w.publisher, w.tick, economylog.RejectedPayload{Type: string(t), Reason: reason})
		return false
	}

	previousMax := economy.MaxHP(&w.upgrades, w.meta)
	level := w.upgrades.Get(t) + 1
	w.upgrades.Set(t, level)
	w.tower.recompute(&w.upgrades, w.meta)
	if t == economy.UpgradeHealth && w.phase != PhaseDefeat {
		w.tower.heal(w.tower.MaxHP - previousMax)
	}

	economylog.UpgradePurchased(w.ctx(), w.publisher, w.tick, economylog.UpgradePurchasedPayload{
		Upgrade: string(t),
		Level:   level,
		Cost:    cost,
	})
	return true
}

// BuyMeta buys the next level of a permanent upgrade with coin or gem.
func (w *World) BuyMeta(t economy.MetaType) bool {
	price, reason := economy.CheckMeta(t, w.meta, w.wallet)
	if reason == "" && !w.wallet.Spend(price) {
		reason = economy.RejectInsufficientFunds
	}
	if reason != "" {
		economylog.MetaRejected(w.ctx(), w.publisher, w.tick, economylog.RejectedPayload{Type: string(t), Reason: reason})
		return false
	}

	level := w.meta.Get(t) + 1
	w.meta = w.meta.With(t, level)
	w.tower.recompute(&w.upgrades, w.meta)
	if t == economy.MetaHealth && w.phase != PhaseDefeat {
		w.tower.heal(metaHealthHeal)
	}

	economylog.MetaPurchased(w.ctx(), w.publisher, w.tick, economylog.MetaPurchasedPayload{
		Meta:  string(t),
		Level: level,
		Coin:  price.Coin,
		Gem:   price.Gem,
	})
	return true
}
