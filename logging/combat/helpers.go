package combat

import (
	"context"

	"tower-survival/server/logging"
)

const (
	// EventEnemyDefeated is emitted when an enemy's hp reaches zero.
	EventEnemyDefeated logging.EventType = "combat.enemy_defeated"
	// EventEnemySplit is emitted when a scatter enemy fragments on death.
	EventEnemySplit logging.EventType = "combat.enemy_split"
	// EventCursorAttack is emitted when the active skill is used.
	EventCursorAttack logging.EventType = "combat.cursor_attack"
	// EventContact is emitted when an enemy reaches the tower.
	EventContact logging.EventType = "combat.contact"
)

type EnemyDefeatedPayload struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
}

type EnemySplitPayload struct {
	Kind       string `json:"kind"`
	Generation int    `json:"generation"`
	Children   int    `json:"children"`
}

type CursorAttackPayload struct {
	Damage int `json:"damage"`
}

type ContactPayload struct {
	Kind    string  `json:"kind"`
	Damage  float64 `json:"damage"`
	Blocked bool    `json:"blocked,omitempty"`
	Thorns  float64 `json:"thorns,omitempty"`
}

func EnemyDefeated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload EnemyDefeatedPayload) {
	publish(ctx, pub, tick, EventEnemyDefeated, actor, nil, payload)
}

func EnemySplit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, children []logging.EntityRef, payload EnemySplitPayload) {
	publish(ctx, pub, tick, EventEnemySplit, actor, children, payload)
}

func CursorAttack(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload CursorAttackPayload) {
	publish(ctx, pub, tick, EventCursorAttack, logging.TowerRef(), []logging.EntityRef{target}, payload)
}

func Contact(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ContactPayload) {
	publish(ctx, pub, tick, EventContact, actor, []logging.EntityRef{logging.TowerRef()}, payload)
}

func publish(ctx context.Context, pub logging.Publisher, tick uint64, eventType logging.EventType, actor logging.EntityRef, targets []logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: logging.SeverityDebug,
		Category: "combat",
		Payload:  payload,
	})
}
