package intake

import (
	"time"

	"tower-survival/server/internal/net/proto"
	"tower-survival/server/internal/sim"
)

// RejectUnknownType marks a client message whose type has no command.
const RejectUnknownType = "unknown_type"

// Enqueuer stages commands for the next tick.
type Enqueuer interface {
	Enqueue(cmd sim.Command) (bool, string)
}

// CommandContext supplies the staging collaborators.
type CommandContext struct {
	Engine Enqueuer
	Tick   func() uint64
	Now    func() time.Time
}

// StageClientCommand translates msg and enqueues it on behalf of clientID.
func StageClientCommand(ctx CommandContext, clientID string, msg proto.ClientMessage) (sim.Command, bool, string) {
	var zero sim.Command

	command, ok := proto.ClientCommand(msg)
	if !ok {
		return zero, false, RejectUnknownType
	}
	if !command.Validate() {
		return zero, false, sim.CommandRejectInvalid
	}

	command.ClientID = clientID
	if ctx.Tick != nil {
		command.OriginTick = ctx.Tick()
	}
	if ctx.Now != nil {
		command.IssuedAt = ctx.Now()
	} else {
		command.IssuedAt = time.Now()
	}

	if ctx.Engine == nil {
		return zero, false, sim.CommandRejectQueueFull
	}
	if ok, reason := ctx.Engine.Enqueue(command); !ok {
		return zero, false, reason
	}
	return command, true, ""
}
