package server

import (
	"sync/atomic"
	"time"
)

type telemetryCounters struct {
	bytesSent          atomic.Uint64
	broadcasts         atomic.Uint64
	tickDurationMicros atomic.Int64
	lastBroadcastBytes atomic.Uint64
	commandsAccepted   atomic.Uint64
	commandsRejected   atomic.Uint64
	saveRequests       atomic.Uint64
	writeFailures      atomic.Uint64
}

// TelemetrySnapshot is the diagnostics view of the hub counters.
type TelemetrySnapshot struct {
	BytesSent          uint64            `json:"bytesSent"`
	Broadcasts         uint64            `json:"broadcasts"`
	LastBroadcastBytes uint64            `json:"lastBroadcastBytes"`
	TickDurationMicros int64             `json:"tickDurationMicros"`
	CommandsAccepted   uint64            `json:"commandsAccepted"`
	CommandsRejected   uint64            `json:"commandsRejected"`
	SaveRequests       uint64            `json:"saveRequests"`
	WriteFailures      uint64            `json:"writeFailures"`
	Metrics            map[string]uint64 `json:"metrics,omitempty"`
}

func (t *telemetryCounters) RecordBroadcast(bytes int) {
	if bytes < 0 {
		bytes = 0
	}
	t.broadcasts.Add(1)
	t.bytesSent.Add(uint64(bytes))
	t.lastBroadcastBytes.Store(uint64(bytes))
}

func (t *telemetryCounters) RecordTickDuration(duration time.Duration) {
	micros := duration.Microseconds()
	if micros < 0 {
		micros = 0
	}
	t.tickDurationMicros.Store(micros)
}

func (t *telemetryCounters) RecordCommand(accepted bool) {
	if accepted {
		t.commandsAccepted.Add(1)
	} else {
		t.commandsRejected.Add(1)
	}
}

func (t *telemetryCounters) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		BytesSent:          t.bytesSent.Load(),
		Broadcasts:         t.broadcasts.Load(),
		LastBroadcastBytes: t.lastBroadcastBytes.Load(),
		TickDurationMicros: t.tickDurationMicros.Load(),
		CommandsAccepted:   t.commandsAccepted.Load(),
		CommandsRejected:   t.commandsRejected.Load(),
		SaveRequests:       t.saveRequests.Load(),
		WriteFailures:      t.writeFailures.Load(),
	}
}
