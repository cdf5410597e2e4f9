package ws

import (
	nethttp "net/http"

	"github.com/gorilla/websocket"

	"tower-survival/server"
	"tower-survival/server/internal/net/intake"
	"tower-survival/server/internal/net/proto"
	"tower-survival/server/internal/telemetry"
)

const defaultReadLimit = 4096

type HandlerConfig struct {
	Logger    telemetry.Logger
	ReadLimit int64
}

// Handler upgrades requests and runs one session per connection.
type Handler struct {
	hub       *server.Hub
	logger    telemetry.Logger
	readLimit int64
	upgrader  websocket.Upgrader
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	readLimit := cfg.ReadLimit
	if readLimit <= 0 {
		readLimit = defaultReadLimit
	}
	return &Handler{
		hub:       hub,
		logger:    logger,
		readLimit: readLimit,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	enc, ok := proto.ParseEncoding(r.URL.Query().Get("encoding"))
	if !ok {
		nethttp.Error(w, "unsupported encoding", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(h.readLimit)

	sub, err := h.hub.Subscribe(conn, enc)
	if err != nil {
		h.logger.Printf("failed to start session: %v", err)
		conn.Close()
		return
	}
	h.serve(sub, conn)
}

func (h *Handler) serve(sub *server.Subscriber, conn *websocket.Conn) {
	for {
		frameType, payload, err := conn.ReadMessage()
		if err != nil {
			reason := "closed"
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				reason = "read_failed"
			}
			h.hub.Disconnect(sub.ID, reason)
			return
		}

		enc := proto.EncodingJSON
		if frameType == websocket.BinaryMessage {
			enc = proto.EncodingMsgpack
		}
		msg, err := proto.DecodeClientMessage(enc, payload)
		if err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", sub.ID, err)
			continue
		}

		if _, ok, reason := h.hub.HandleClientMessage(sub.ID, msg); !ok {
			if reason == intake.RejectUnknownType {
				h.logger.Printf("unknown message type %q from %s", msg.Type, sub.ID)
			} else {
				h.logger.Printf("%s from %s rejected: %s", msg.Type, sub.ID, reason)
			}
		}
	}
}
