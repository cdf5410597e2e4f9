package sim

import (
	"time"

	"tower-survival/server/internal/world"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandStartWave      CommandType = "StartWave"
	CommandUpgrade        CommandType = "Upgrade"
	CommandBuyMeta        CommandType = "BuyMeta"
	CommandCursorAttack   CommandType = "CursorAttack"
	CommandRetry          CommandType = "Retry"
	CommandLoadPersistent CommandType = "LoadPersistent"
)

// UpgradeCommand names a temporary or meta upgrade by wire identifier.
type UpgradeCommand struct {
	Type string `json:"type"`
}

// CursorCommand targets the active skill at an enemy.
type CursorCommand struct {
	TargetID int `json:"targetId"`
}

// LoadCommand carries persistent progress read from storage.
type LoadCommand struct {
	Patch world.PersistentPatch `json:"-"`
	// Source describes where the patch came from, for logs.
	Source string `json:"source"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64          `json:"originTick"`
	ClientID   string          `json:"clientId,omitempty"`
	Type       CommandType     `json:"type"`
	IssuedAt   time.Time       `json:"issuedAt"`
	Upgrade    *UpgradeCommand `json:"upgrade,omitempty"`
	Cursor     *CursorCommand  `json:"cursor,omitempty"`
	Load       *LoadCommand    `json:"load,omitempty"`
}

// CommandOutcome reports how a drained command was handled.
type CommandOutcome struct {
	Command Command
	Applied bool
	Reason  string
}

// ChangesPersistent reports whether an applied command touched progress that
// must be saved.
func (o CommandOutcome) ChangesPersistent() bool {
	if !o.Applied {
		return false
	}
	switch o.Command.Type {
	case CommandBuyMeta, CommandRetry, CommandLoadPersistent:
		return true
	default:
		return false
	}
}
