package network

import (
	"context"

	"tower-survival/server/logging"
)

const (
	// EventClientConnected is emitted when a websocket subscriber joins.
	EventClientConnected logging.EventType = "network.client_connected"
	// EventClientDisconnected is emitted when a subscriber leaves or is dropped.
	EventClientDisconnected logging.EventType = "network.client_disconnected"
	// EventMessageRejected is emitted when an inbound message cannot be applied.
	EventMessageRejected logging.EventType = "network.message_rejected"
)

type ClientConnectedPayload struct {
	Encoding string `json:"encoding"`
}

type ClientDisconnectedPayload struct {
	Reason string `json:"reason"`
}

type MessageRejectedPayload struct {
	MessageType string `json:"messageType,omitempty"`
	Reason      string `json:"reason"`
}

func ClientConnected(ctx context.Context, pub logging.Publisher, client string, payload ClientConnectedPayload) {
	publish(ctx, pub, client, EventClientConnected, logging.SeverityInfo, payload)
}

func ClientDisconnected(ctx context.Context, pub logging.Publisher, client string, payload ClientDisconnectedPayload) {
	publish(ctx, pub, client, EventClientDisconnected, logging.SeverityInfo, payload)
}

func MessageRejected(ctx context.Context, pub logging.Publisher, client string, payload MessageRejectedPayload) {
	publish(ctx, pub, client, EventMessageRejected, logging.SeverityWarn, payload)
}

func publish(ctx context.Context, pub logging.Publisher, client string, eventType logging.EventType, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Actor:    logging.EntityRef{ID: client, Kind: logging.EntityKindClient},
		Severity: severity,
		Category: "network",
		Payload:  payload,
	})
}
