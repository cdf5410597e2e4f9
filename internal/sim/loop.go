package sim

import (
	"context"
	"sync"
	"time"

	"tower-survival/server/internal/telemetry"
	"tower-survival/server/internal/world"
	"tower-survival/server/logging"
)

const (
	defaultTickInterval = 16 * time.Millisecond
	tickDurationMetric  = "sim_tick_duration_us"
	tickClampedMetric   = "sim_tick_clamped_total"
	commandsAppliedKey  = "sim_commands_applied_total"
	commandsDeclinedKey = "sim_commands_declined_total"
)

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickInterval    time.Duration
	CatchupMaxTicks int
	CommandCapacity int
	WarningStep     int
}

func (c LoopConfig) normalized() LoopConfig {
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.CatchupMaxTicks < 1 {
		c.CatchupMaxTicks = 4
	}
	if c.CommandCapacity < 1 {
		c.CommandCapacity = 256
	}
	return c
}

// LoopHooks lets the host observe the loop without owning it.
type LoopHooks struct {
	AfterStep      func(LoopStepResult)
	OnCommandDrop  func(reason string, cmd Command)
	OnQueueWarning func(length int)
}

// Deps bundles the runtime collaborators of a Loop.
type Deps struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	Clock   logging.Clock
}

// LoopStepResult describes one advanced tick.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        time.Duration
	Duration     time.Duration
	ClampedDelta bool
	Snapshot     world.GameState
	Persistent   world.PersistentState
	Outcomes     []CommandOutcome
	// SaveRequested is set when progress that must survive a restart changed.
	SaveRequested bool
}

// Loop owns the world: commands are staged from any goroutine and applied in
// FIFO order at the start of the next tick.
type Loop struct {
	world   *world.World
	buffer  *CommandBuffer
	hooks   LoopHooks
	config  LoopConfig
	logger  telemetry.Logger
	metrics telemetry.Metrics
	clock   logging.Clock

	// stepMu serialises Advance; the world has a single writer.
	stepMu sync.Mutex

	latestMu   sync.RWMutex
	latest     world.GameState
	persistent world.PersistentState
	tick       uint64
	bestWave   int
}

// NewLoop wraps w with a ring-buffer queue and a fixed-interval runner.
func NewLoop(w *world.World, cfg LoopConfig, deps Deps, hooks LoopHooks) *Loop {
	if w == nil {
		return nil
	}
	cfg = cfg.normalized()
	if deps.Logger == nil {
		deps.Logger = telemetry.NopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = telemetry.NopMetrics()
	}
	if deps.Clock == nil {
		deps.Clock = logging.SystemClock{}
	}
	loop := &Loop{
		world:   w,
		buffer:  NewCommandBuffer(cfg.CommandCapacity, deps.Metrics),
		hooks:   hooks,
		config:  cfg,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		clock:   deps.Clock,
	}
	loop.latest = w.GameState()
	loop.persistent = w.PersistentState()
	loop.bestWave = loop.persistent.BestWave
	return loop
}

// Config returns the normalized loop configuration.
func (l *Loop) Config() LoopConfig {
	return l.config
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Snapshot returns the state produced by the most recent step.
func (l *Loop) Snapshot() world.GameState {
	if l == nil {
		return world.GameState{}
	}
	l.latestMu.RLock()
	defer l.latestMu.RUnlock()
	return l.latest
}

// Tick reports the tick of the most recent step.
func (l *Loop) Tick() uint64 {
	if l == nil {
		return 0
	}
	l.latestMu.RLock()
	defer l.latestMu.RUnlock()
	return l.tick
}

// Persistent returns the progress produced by the most recent step.
func (l *Loop) Persistent() world.PersistentState {
	if l == nil {
		return world.PersistentState{}
	}
	l.latestMu.RLock()
	defer l.latestMu.RUnlock()
	return l.persistent
}

// Enqueue stages a command. Malformed commands are rejected immediately so
// callers can report them to the sender.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	if !cmd.Validate() {
		l.reportDrop(CommandRejectInvalid, cmd)
		return false, CommandRejectInvalid
	}
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = l.clock.Now()
	}
	if !l.buffer.Push(cmd) {
		l.reportDrop(CommandRejectQueueFull, cmd)
		return false, CommandRejectQueueFull
	}
	if step := l.config.WarningStep; step > 0 {
		length := l.buffer.Len()
		if length >= step && length%step == 0 && l.hooks.OnQueueWarning != nil {
			l.hooks.OnQueueWarning(length)
		}
	}
	return true, ""
}

// Advance applies the staged commands and then moves the world forward by
// delta.
func (l *Loop) Advance(now time.Time, delta time.Duration) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	l.stepMu.Lock()
	defer l.stepMu.Unlock()

	commands := l.buffer.Drain()
	outcomes := make([]CommandOutcome, 0, len(commands))
	save := false
	for _, cmd := range commands {
		outcome := apply(l.world, cmd)
		outcomes = append(outcomes, outcome)
		if outcome.Applied {
			l.metrics.Add(commandsAppliedKey, 1)
		} else {
			l.metrics.Add(commandsDeclinedKey, 1)
		}
		if outcome.ChangesPersistent() {
			save = true
		}
	}

	l.world.Update(delta)

	snapshot := l.world.GameState()
	persistent := l.world.PersistentState()

	l.latestMu.Lock()
	if persistent.BestWave != l.bestWave {
		// A defeat that set a new record.
		save = true
		l.bestWave = persistent.BestWave
	}
	l.latest = snapshot
	l.persistent = persistent
	l.tick = l.world.Tick()
	l.latestMu.Unlock()

	return LoopStepResult{
		Tick:          l.world.Tick(),
		Now:           now,
		Delta:         delta,
		Snapshot:      snapshot,
		Persistent:    persistent,
		Outcomes:      outcomes,
		SaveRequested: save,
	}
}

// Run drives the loop on a ticker until ctx is cancelled. Elapsed time is
// measured from the clock and clamped to CatchupMaxTicks intervals.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil {
		return nil
	}
	interval := l.config.TickInterval
	maxDelta := interval * time.Duration(l.config.CatchupMaxTicks)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := l.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := l.clock.Now()
			delta := now.Sub(last)
			clamped := false
			if delta <= 0 {
				delta = interval
			} else if delta > maxDelta {
				delta = maxDelta
				clamped = true
			}
			last = now

			start := l.clock.Now()
			result := l.Advance(now, delta)
			result.Duration = l.clock.Now().Sub(start)
			result.ClampedDelta = clamped

			l.metrics.Store(tickDurationMetric, uint64(result.Duration.Microseconds()))
			if clamped {
				l.metrics.Add(tickClampedMetric, 1)
			}
			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) reportDrop(reason string, cmd Command) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	l.logger.Printf("dropping command client=%s type=%s reason=%s", cmd.ClientID, cmd.Type, reason)
}
