package lifecycle

import (
	"context"

	"tower-survival/server/logging"
)

const (
	// EventWaveStarted is emitted when a wave begins or resumes after a clear.
	EventWaveStarted logging.EventType = "lifecycle.wave_started"
	// EventWaveCleared is emitted when the last enemy of a wave is removed.
	EventWaveCleared logging.EventType = "lifecycle.wave_cleared"
	// EventRunDefeated is emitted once when the tower falls.
	EventRunDefeated logging.EventType = "lifecycle.run_defeated"
	// EventRunReset is emitted when a retry returns the run to idle.
	EventRunReset logging.EventType = "lifecycle.run_reset"
	// EventPersistentLoaded is emitted after persistent progress is applied.
	EventPersistentLoaded logging.EventType = "lifecycle.persistent_loaded"
)

type WaveStartedPayload struct {
	Wave    int  `json:"wave"`
	Resumed bool `json:"resumed"`
}

type WaveClearedPayload struct {
	Wave int `json:"wave"`
}

type RunDefeatedPayload struct {
	Wave       int    `json:"wave"`
	BestWave   int    `json:"bestWave"`
	LastKiller string `json:"lastKiller,omitempty"`
	CoinRun    int    `json:"coinRun"`
}

type RunResetPayload struct {
	LastCoinRun int `json:"lastCoinRun"`
}

type PersistentLoadedPayload struct {
	Coin     int `json:"coin"`
	Gem      int `json:"gem"`
	BestWave int `json:"bestWave"`
}

func WaveStarted(ctx context.Context, pub logging.Publisher, tick uint64, payload WaveStartedPayload) {
	publish(ctx, pub, tick, EventWaveStarted, logging.SeverityInfo, payload)
}

func WaveCleared(ctx context.Context, pub logging.Publisher, tick uint64, payload WaveClearedPayload) {
	publish(ctx, pub, tick, EventWaveCleared, logging.SeverityInfo, payload)
}

func RunDefeated(ctx context.Context, pub logging.Publisher, tick uint64, payload RunDefeatedPayload) {
	publish(ctx, pub, tick, EventRunDefeated, logging.SeverityInfo, payload)
}

func RunReset(ctx context.Context, pub logging.Publisher, tick uint64, payload RunResetPayload) {
	publish(ctx, pub, tick, EventRunReset, logging.SeverityInfo, payload)
}

func PersistentLoaded(ctx context.Context, pub logging.Publisher, tick uint64, payload PersistentLoadedPayload) {
	publish(ctx, pub, tick, EventPersistentLoaded, logging.SeverityInfo, payload)
}

func publish(ctx context.Context, pub logging.Publisher, tick uint64, eventType logging.EventType, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    logging.RunRef(),
		Severity: severity,
		Category: "lifecycle",
		Payload:  payload,
	})
}
