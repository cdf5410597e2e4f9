package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	server "tower-survival/server"
	"tower-survival/server/internal/config"
	servernet "tower-survival/server/internal/net"
	"tower-survival/server/internal/persist"
	"tower-survival/server/internal/sim"
	"tower-survival/server/internal/telemetry"
	"tower-survival/server/internal/world"
	"tower-survival/server/logging"
	loggingSinks "tower-survival/server/logging/sinks"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	Logger telemetry.Logger
	Server config.Config
	// Listener overrides Server.Addr when set.
	Listener net.Listener
}

// Run serves until ctx is cancelled or a component fails.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	serverCfg := cfg.Server

	metrics := &logging.Metrics{}
	router, err := newRouter(serverCfg, metrics)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	store := persist.NewStore(persist.StoreConfig{
		Path:     serverCfg.SavePath,
		Debounce: serverCfg.SaveDebounce,
		Interval: serverCfg.SaveInterval,
	}, telemetry.WithPrefix(logger, "persist"), telemetry.WrapMetrics(metrics))

	var initial *world.PersistentPatch
	if patch, ok, err := store.Load(); err != nil {
		logger.Printf("ignoring unreadable save %s: %v", store.Path(), err)
	} else if ok {
		initial = &patch
		logger.Printf("loaded progress from %s", store.Path())
	}

	hub := server.NewHubWithConfig(server.HubConfig{
		Seed: serverCfg.Seed,
		Loop: sim.LoopConfig{
			TickInterval:    serverCfg.TickInterval,
			CommandCapacity: serverCfg.CommandCapacity,
			WarningStep:     serverCfg.CommandCapacity / 4,
		},
		Logger:    logger,
		Publisher: router,
		Metrics:   metrics,
		Store:     store,
		Initial:   initial,
	})

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir:   serverCfg.ClientDir,
		DebugRoutes: serverCfg.DebugRoutes,
		Logger:      logger,
	})
	srv := &http.Server{Addr: serverCfg.Addr, Handler: handler}

	listener := cfg.Listener
	if listener == nil {
		listener, err = net.Listen("tcp", serverCfg.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", serverCfg.Addr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.RunSimulation(gctx)
	})
	g.Go(func() error {
		return store.Run(gctx)
	})
	if serverCfg.WatchSave {
		watcher, err := persist.NewWatcher(store, func(patch world.PersistentPatch) {
			if ok, reason := hub.LoadPersistent(patch, "save-watch"); !ok {
				logger.Printf("could not queue reloaded save: %s", reason)
			}
		}, telemetry.WithPrefix(logger, "persist"))
		if err != nil {
			logger.Printf("save watching disabled: %v", err)
		} else {
			g.Go(func() error {
				return watcher.Run(gctx)
			})
		}
	}
	g.Go(func() error {
		logger.Printf("server listening on %s", listener.Addr())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(cfg config.Config, metrics *logging.Metrics) (*logging.Router, error) {
	routerCfg := cfg.RouterConfig()
	var named []logging.NamedSink
	if routerCfg.HasSink(logging.SinkConsole) {
		named = append(named, logging.NamedSink{Name: logging.SinkConsole, Sink: loggingSinks.NewConsole(os.Stdout)})
	}
	if routerCfg.HasSink(logging.SinkJSON) && routerCfg.JSON.FilePath != "" {
		sink, err := loggingSinks.OpenJSONFile(routerCfg.JSON.FilePath, routerCfg.JSON.FlushInterval)
		if err != nil {
			return nil, fmt.Errorf("failed to open json log sink: %w", err)
		}
		named = append(named, logging.NamedSink{Name: logging.SinkJSON, Sink: sink})
	}
	return logging.NewRouter(routerCfg, logging.SystemClock{}, metrics, named...), nil
}
