package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tower-survival/server/internal/net/intake"
	"tower-survival/server/internal/net/proto"
	"tower-survival/server/internal/persist"
	"tower-survival/server/internal/sim"
	"tower-survival/server/internal/telemetry"
	"tower-survival/server/internal/world"
	"tower-survival/server/logging"
	networklog "tower-survival/server/logging/network"
)

const writeWait = 10 * time.Second

// HubConfig bundles the collaborators of a Hub.
type HubConfig struct {
	Seed      string
	Loop      sim.LoopConfig
	Logger    telemetry.Logger
	Publisher logging.Publisher
	Metrics   *logging.Metrics
	// Store is optional; without it progress is kept in memory only.
	Store *persist.Store
	// Initial is applied to the world before the first tick.
	Initial *world.PersistentPatch
	Clock   logging.Clock
}

// DefaultHubConfig returns a configuration with in-memory persistence.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		Seed: world.DefaultSeed,
		Loop: sim.LoopConfig{TickInterval: 16 * time.Millisecond, CommandCapacity: 256},
	}
}

// Subscriber is one websocket client receiving state frames.
type Subscriber struct {
	ID          string
	Encoding    proto.Encoding
	ConnectedAt time.Time

	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteMessage writes a frame with the hub's write deadline.
func (s *Subscriber) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, data)
}

func (s *Subscriber) messageType() int {
	if s.Encoding.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Hub owns the simulation loop and fans its snapshots out to subscribers.
type Hub struct {
	loop      *sim.Loop
	store     *persist.Store
	logger    telemetry.Logger
	publisher logging.Publisher
	metrics   *logging.Metrics
	clock     logging.Clock
	telemetry *telemetryCounters
	startedAt time.Time

	mu          sync.Mutex
	subscribers map[string]*Subscriber
}

// NewHubWithConfig constructs a hub and its world.
func NewHubWithConfig(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &logging.Metrics{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}

	w := world.New(world.Config{Seed: cfg.Seed}, world.Deps{Publisher: publisher})
	if cfg.Initial != nil {
		w.LoadPersistentState(*cfg.Initial)
	}

	h := &Hub{
		store:       cfg.Store,
		logger:      logger,
		publisher:   publisher,
		metrics:     metrics,
		clock:       clock,
		telemetry:   &telemetryCounters{},
		startedAt:   clock.Now(),
		subscribers: make(map[string]*Subscriber),
	}
	h.loop = sim.NewLoop(w, cfg.Loop, sim.Deps{
		Logger:  telemetry.WithPrefix(logger, "sim"),
		Metrics: telemetry.WrapMetrics(metrics),
		Clock:   clock,
	}, sim.LoopHooks{
		AfterStep: h.afterStep,
		OnQueueWarning: func(length int) {
			logger.Printf("[backpressure] command queue length=%d", length)
		},
	})
	if h.store != nil {
		h.store.Observe(w.PersistentState())
	}
	return h
}

// Loop exposes the simulation loop.
func (h *Hub) Loop() *sim.Loop {
	return h.loop
}

// RunSimulation drives the loop until ctx is cancelled.
func (h *Hub) RunSimulation(ctx context.Context) error {
	return h.loop.Run(ctx)
}

// Subscribe sends the INIT frame on conn and then registers it for updates,
// so no UPDATE can overtake the initial state.
func (h *Hub) Subscribe(conn *websocket.Conn, enc proto.Encoding) (*Subscriber, error) {
	data, err := proto.EncodeServerMessage(enc, proto.ServerMessage{Type: proto.TypeInit, Data: h.loop.Snapshot()})
	if err != nil {
		return nil, err
	}
	sub := &Subscriber{
		ID:          uuid.NewString(),
		Encoding:    enc,
		ConnectedAt: h.clock.Now(),
		conn:        conn,
	}
	if err := sub.WriteMessage(sub.messageType(), data); err != nil {
		return nil, fmt.Errorf("send initial state: %w", err)
	}
	h.telemetry.RecordBroadcast(len(data))

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()

	networklog.ClientConnected(context.Background(), h.publisher, sub.ID, networklog.ClientConnectedPayload{Encoding: string(enc)})
	return sub, nil
}

// Disconnect removes the subscriber and closes its connection.
func (h *Hub) Disconnect(id, reason string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	if sub.conn != nil {
		sub.conn.Close()
	}
	networklog.ClientDisconnected(context.Background(), h.publisher, id, networklog.ClientDisconnectedPayload{Reason: reason})
}

// SubscriberCount reports the connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// HandleClientMessage stages the command carried by msg. Rejections are
// logged and reported to the caller; the sender receives no reply.
func (h *Hub) HandleClientMessage(clientID string, msg proto.ClientMessage) (sim.Command, bool, string) {
	cmd, ok, reason := intake.StageClientCommand(intake.CommandContext{
		Engine: h.loop,
		Tick:   h.loop.Tick,
		Now:    h.clock.Now,
	}, clientID, msg)
	h.telemetry.RecordCommand(ok)
	if !ok {
		networklog.MessageRejected(context.Background(), h.publisher, clientID, networklog.MessageRejectedPayload{
			MessageType: msg.Type,
			Reason:      reason,
		})
	}
	return cmd, ok, reason
}

// LoadPersistent queues progress read from storage.
func (h *Hub) LoadPersistent(patch world.PersistentPatch, source string) (bool, string) {
	return h.loop.Enqueue(sim.Command{
		Type:     sim.CommandLoadPersistent,
		ClientID: source,
		Load:     &sim.LoadCommand{Patch: patch, Source: source},
	})
}

// ResetPersistent deletes the save and zeroes the persistent progress of the
// running game.
func (h *Hub) ResetPersistent() error {
	if h.store != nil {
		if err := h.store.Reset(); err != nil {
			return err
		}
	}
	if ok, reason := h.LoadPersistent(world.PersistentState{}.Patch(), "debug-reset"); !ok {
		return fmt.Errorf("queue reset: %s", reason)
	}
	return nil
}

func (h *Hub) afterStep(result sim.LoopStepResult) {
	h.telemetry.RecordTickDuration(result.Duration)
	if h.store != nil {
		if result.SaveRequested {
			h.telemetry.saveRequests.Add(1)
			h.store.RequestSave(result.Persistent)
		} else {
			h.store.Observe(result.Persistent)
		}
	}
	h.Broadcast(result.Snapshot)
}

// Broadcast sends an UPDATE frame to every subscriber. Each encoding is
// rendered once per call.
func (h *Hub) Broadcast(state world.GameState) {
	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()
	if len(subs) == 0 {
		return
	}

	frames := make(map[proto.Encoding][]byte, 2)
	for _, sub := range subs {
		data, ok := frames[sub.Encoding]
		if !ok {
			var err error
			data, err = proto.EncodeServerMessage(sub.Encoding, proto.ServerMessage{Type: proto.TypeUpdate, Data: state})
			if err != nil {
				h.logger.Printf("failed to encode update: %v", err)
				return
			}
			frames[sub.Encoding] = data
		}
		if err := sub.WriteMessage(sub.messageType(), data); err != nil {
			h.telemetry.writeFailures.Add(1)
			h.logger.Printf("failed to send update to %s: %v", sub.ID, err)
			h.Disconnect(sub.ID, "write_failed")
			continue
		}
		h.telemetry.RecordBroadcast(len(data))
	}
}

// SubscriberDiagnostics describes one connected client.
type SubscriberDiagnostics struct {
	ID          string `json:"id"`
	Encoding    string `json:"encoding"`
	ConnectedAt int64  `json:"connectedAt"`
}

// Diagnostics is the payload of the diagnostics route.
type Diagnostics struct {
	Status       string                  `json:"status"`
	ServerTime   int64                   `json:"serverTime"`
	UptimeMillis int64                   `json:"uptimeMillis"`
	TickMillis   int64                   `json:"tickMillis"`
	Pending      int                     `json:"pendingCommands"`
	Wave         int                     `json:"wave"`
	WaveActive   bool                    `json:"waveActive"`
	GameOver     bool                    `json:"gameOver"`
	Subscribers  []SubscriberDiagnostics `json:"subscribers"`
	Telemetry    TelemetrySnapshot       `json:"telemetry"`
}

// DiagnosticsSnapshot gathers the hub's current state for operators.
func (h *Hub) DiagnosticsSnapshot() Diagnostics {
	now := h.clock.Now()
	h.mu.Lock()
	subs := make([]SubscriberDiagnostics, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, SubscriberDiagnostics{
			ID:          sub.ID,
			Encoding:    string(sub.Encoding),
			ConnectedAt: sub.ConnectedAt.UnixMilli(),
		})
	}
	h.mu.Unlock()
	sort.Slice(subs, func(i, j int) bool { return subs[i].ConnectedAt < subs[j].ConnectedAt })

	snapshot := h.loop.Snapshot()
	tele := h.telemetry.Snapshot()
	tele.Metrics = h.metrics.Snapshot()
	return Diagnostics{
		Status:       "ok",
		ServerTime:   now.UnixMilli(),
		UptimeMillis: now.Sub(h.startedAt).Milliseconds(),
		TickMillis:   h.loop.Config().TickInterval.Milliseconds(),
		Pending:      h.loop.Pending(),
		Wave:         snapshot.Wave,
		WaveActive:   snapshot.IsWaveActive,
		GameOver:     snapshot.GameOver,
		Subscribers:  subs,
		Telemetry:    tele,
	}
}
