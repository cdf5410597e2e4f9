package net

import (
	"encoding/json"
	nethttp "net/http"

	"tower-survival/server"
	"tower-survival/server/internal/net/ws"
	"tower-survival/server/internal/telemetry"
)

type HTTPHandlerConfig struct {
	ClientDir   string
	DebugRoutes bool
	Logger      telemetry.Logger
}

func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, logger, hub.DiagnosticsSnapshot())
	})

	if cfg.DebugRoutes {
		mux.HandleFunc("/debug/reset-save", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if r.Method != nethttp.MethodPost {
				httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
				return
			}
			if err := hub.ResetPersistent(); err != nil {
				logger.Printf("reset save failed: %v", err)
				httpError(w, "reset failed", nethttp.StatusInternalServerError)
				return
			}
			writeJSON(w, logger, map[string]bool{"ok": true})
		})
	}

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{Logger: telemetry.WithPrefix(logger, "ws")})
	mux.HandleFunc("/ws", wsHandler.Handle)

	if cfg.ClientDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	}

	return mux
}

func writeJSON(w nethttp.ResponseWriter, logger telemetry.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, message string, status int) {
	nethttp.Error(w, message, status)
}
