package economy

import (
	"context"

	"tower-survival/server/logging"
)

const (
	// EventUpgradePurchased is emitted when a temporary upgrade is bought with cash.
	EventUpgradePurchased logging.EventType = "economy.upgrade_purchased"
	// EventUpgradeRejected is emitted when a temporary upgrade purchase is declined.
	EventUpgradeRejected logging.EventType = "economy.upgrade_rejected"
	// EventMetaPurchased is emitted when a meta upgrade is bought with coin or gem.
	EventMetaPurchased logging.EventType = "economy.meta_purchased"
	// EventMetaRejected is emitted when a meta upgrade purchase is declined.
	EventMetaRejected logging.EventType = "economy.meta_rejected"
	// EventRewardCredited is emitted when a kill pays out cash and coin.
	EventRewardCredited logging.EventType = "economy.reward_credited"
)

type UpgradePurchasedPayload struct {
	Upgrade string `json:"upgrade"`
	Level   int    `json:"level"`
	Cost    int    `json:"cost"`
}

type MetaPurchasedPayload struct {
	Meta  string `json:"meta"`
	Level int    `json:"level"`
	Coin  int    `json:"coin,omitempty"`
	Gem   int    `json:"gem,omitempty"`
}

type RejectedPayload struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type RewardCreditedPayload struct {
	EnemyKind string `json:"enemyKind"`
	Cash      int    `json:"cash"`
	Coin      int    `json:"coin"`
}

func UpgradePurchased(ctx context.Context, pub logging.Publisher, tick uint64, payload UpgradePurchasedPayload) {
	publish(ctx, pub, tick, EventUpgradePurchased, logging.SeverityInfo, logging.TowerRef(), payload)
}

func UpgradeRejected(ctx context.Context, pub logging.Publisher, tick uint64, payload RejectedPayload) {
	publish(ctx, pub, tick, EventUpgradeRejected, logging.SeverityDebug, logging.TowerRef(), payload)
}

func MetaPurchased(ctx context.Context, pub logging.Publisher, tick uint64, payload MetaPurchasedPayload) {
	publish(ctx, pub, tick, EventMetaPurchased, logging.SeverityInfo, logging.RunRef(), payload)
}

func MetaRejected(ctx context.Context, pub logging.Publisher, tick uint64, payload RejectedPayload) {
	publish(ctx, pub, tick, EventMetaRejected, logging.SeverityDebug, logging.RunRef(), payload)
}

// RewardCredited reports a kill payout. actor is the defeated enemy.
func RewardCredited(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RewardCreditedPayload) {
	publish(ctx, pub, tick, EventRewardCredited, logging.SeverityDebug, actor, payload)
}

func publish(ctx context.Context, pub logging.Publisher, tick uint64, eventType logging.EventType, severity logging.Severity, actor logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: "economy",
		Payload:  payload,
	})
}
