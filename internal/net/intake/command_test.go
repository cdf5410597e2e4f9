package intake

import (
	"testing"
	"time"

	"tower-survival/server/internal/net/proto"
	"tower-survival/server/internal/sim"
)

type fakeEngine struct {
	enqueueOK     bool
	enqueueReason string
	commands      []sim.Command
}

func (f *fakeEngine) Enqueue(cmd sim.Command) (bool, string) {
	f.commands = append(f.commands, cmd)
	if f.enqueueOK {
		return true, ""
	}
	if f.enqueueReason == "" {
		f.enqueueReason = sim.CommandRejectQueueFull
	}
	return false, f.enqueueReason
}

func TestStageClientCommandStampsMetadata(t *testing.T) {
	engine := &fakeEngine{enqueueOK: true}
	issuedAt := time.Unix(100, 0)
	ctx := CommandContext{
		Engine: engine,
		Tick:   func() uint64 { return 42 },
		Now:    func() time.Time { return issuedAt },
	}
	cmd, ok, reason := StageClientCommand(ctx, "client-1", proto.ClientMessage{Type: proto.TypeUpgrade, UpgradeType: "thorns"})
	if !ok || reason != "" {
		t.Fatalf("expected command staged, got %v %q", ok, reason)
	}
	if cmd.ClientID != "client-1" || cmd.OriginTick != 42 || !cmd.IssuedAt.Equal(issuedAt) {
		t.Fatalf("metadata not stamped: %+v", cmd)
	}
	if len(engine.commands) != 1 || engine.commands[0].Upgrade.Type != "thorns" {
		t.Fatalf("unexpected staged commands %+v", engine.commands)
	}
}

func TestStageClientCommandRejections(t *testing.T) {
	engine := &fakeEngine{enqueueOK: true}
	ctx := CommandContext{Engine: engine}

	if _, ok, reason := StageClientCommand(ctx, "c", proto.ClientMessage{Type: "FLY"}); ok || reason != RejectUnknownType {
		t.Fatalf("expected unknown_type, got %v %q", ok, reason)
	}
	if _, ok, reason := StageClientCommand(ctx, "c", proto.ClientMessage{Type: proto.TypeUpgrade, UpgradeType: "laser"}); ok || reason != sim.CommandRejectInvalid {
		t.Fatalf("expected invalid_command, got %v %q", ok, reason)
	}
	if len(engine.commands) != 0 {
		t.Fatalf("rejected messages must not reach the engine")
	}

	full := &fakeEngine{}
	if _, ok, reason := StageClientCommand(CommandContext{Engine: full}, "c", proto.ClientMessage{Type: proto.TypeRetry}); ok || reason != sim.CommandRejectQueueFull {
		t.Fatalf("expected queue_full, got %v %q", ok, reason)
	}
	if _, ok, _ := StageClientCommand(CommandContext{}, "c", proto.ClientMessage{Type: proto.TypeRetry}); ok {
		t.Fatalf("missing engine must reject")
	}
}
