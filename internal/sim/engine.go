package sim

import (
	"tower-survival/server/internal/economy"
	"tower-survival/server/internal/world"
)

const (
	// CommandRejectQueueFull indicates the command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
	// CommandRejectInvalid marks a command with an unknown type or a missing
	// or malformed payload.
	CommandRejectInvalid = "invalid_command"
	// CommandRejectDeclined marks a well-formed command the world refused,
	// such as an unaffordable upgrade.
	CommandRejectDeclined = "declined"
)

// Validate checks the payload shape without touching the world.
func (c Command) Validate() bool {
	switch c.Type {
	case CommandStartWave, CommandRetry:
		return true
	case CommandUpgrade:
		if c.Upgrade == nil {
			return false
		}
		_, ok := economy.ParseUpgradeType(c.Upgrade.Type)
		return ok
	case CommandBuyMeta:
		if c.Upgrade == nil {
			return false
		}
		_, ok := economy.ParseMetaType(c.Upgrade.Type)
		return ok
	case CommandCursorAttack:
		return c.Cursor != nil
	case CommandLoadPersistent:
		return c.Load != nil
	default:
		return false
	}
}

// apply executes one command against the world.
func apply(w *world.World, cmd Command) CommandOutcome {
	outcome := CommandOutcome{Command: cmd}
	if !cmd.Validate() {
		outcome.Reason = CommandRejectInvalid
		return outcome
	}
	switch cmd.Type {
	case CommandStartWave:
		outcome.Applied = w.StartWave()
	case CommandUpgrade:
		t, _ := economy.ParseUpgradeType(cmd.Upgrade.Type)
		outcome.Applied = w.Upgrade(t)
	case CommandBuyMeta:
		t, _ := economy.ParseMetaType(cmd.Upgrade.Type)
		outcome.Applied = w.BuyMeta(t)
	case CommandCursorAttack:
		outcome.Applied = w.CursorAttack(cmd.Cursor.TargetID)
	case CommandRetry:
		w.ResetGame()
		outcome.Applied = true
	case CommandLoadPersistent:
		w.LoadPersistentState(cmd.Load.Patch)
		outcome.Applied = true
	}
	if !outcome.Applied {
		outcome.Reason = CommandRejectDeclined
	}
	return outcome
}
