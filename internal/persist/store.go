package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tower-survival/server/internal/telemetry"
	"tower-survival/server/internal/world"
)

const (
	savesMetricKey      = "persist_saves_total"
	saveErrorsMetricKey = "persist_save_errors_total"
)

// StoreConfig controls where and how often progress is written.
type StoreConfig struct {
	Path     string
	Debounce time.Duration
	Interval time.Duration
}

// Store writes the persistent progress to a single JSON file. Writes go to a
// temporary sibling which is then renamed over the target.
type Store struct {
	config  StoreConfig
	logger  telemetry.Logger
	metrics telemetry.Metrics

	mu          sync.Mutex
	latest      *world.PersistentState
	lastWritten []byte
	timer       *time.Timer
}

// NewStore constructs a store. Zero timings fall back to 300ms and 10s.
func NewStore(cfg StoreConfig, logger telemetry.Logger, metrics telemetry.Metrics) *Store {
	if cfg.Path == "" {
		cfg.Path = "save.json"
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Store{config: cfg, logger: logger, metrics: metrics}
}

// Path returns the save file location.
func (s *Store) Path() string {
	return s.config.Path
}

// Load reads the save file. A missing file reports ok=false without error.
func (s *Store) Load() (world.PersistentPatch, bool, error) {
	data, err := os.ReadFile(s.config.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return world.PersistentPatch{}, false, nil
		}
		return world.PersistentPatch{}, false, fmt.Errorf("persist: read %s: %w", s.config.Path, err)
	}
	patch, err := Decode(data)
	if err != nil {
		return world.PersistentPatch{}, false, err
	}
	s.mu.Lock()
	s.lastWritten = data
	s.mu.Unlock()
	return patch, true, nil
}

// Observe records the most recent progress without writing it.
func (s *Store) Observe(state world.PersistentState) {
	s.mu.Lock()
	s.latest = &state
	s.mu.Unlock()
}

// RequestSave schedules a flush after the debounce window. Repeated requests
// inside the window collapse into one write.
func (s *Store) RequestSave(state world.PersistentState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &state
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.config.Debounce, func() {
		if err := s.Flush(); err != nil {
			s.logger.Printf("debounced save failed: %v", err)
		}
	})
}

// Flush writes the latest observed state if it differs from what is on disk.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return nil
	}
	return s.writeLocked(*s.latest, false)
}

// Save writes state immediately, even when unchanged.
func (s *Store) Save(state world.PersistentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &state
	return s.writeLocked(state, true)
}

// Reset deletes the save file. A missing file is not an error.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.latest = nil
	s.lastWritten = nil
	if err := os.Remove(s.config.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("persist: remove %s: %w", s.config.Path, err)
	}
	return nil
}

// Written reports whether data matches the last bytes this store wrote or
// read.
func (s *Store) Written(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWritten != nil && bytes.Equal(s.lastWritten, data)
}

// Run flushes on the configured interval until ctx is cancelled, then
// performs a final flush.
func (s *Store) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.timer != nil {
				s.timer.Stop()
				s.timer = nil
			}
			s.mu.Unlock()
			if err := s.Flush(); err != nil {
				s.logger.Printf("final save failed: %v", err)
			}
			return nil
		case <-ticker.C:
			if err := s.Flush(); err != nil {
				s.logger.Printf("periodic save failed: %v", err)
			}
		}
	}
}

func (s *Store) writeLocked(state world.PersistentState, force bool) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	if !force && bytes.Equal(data, s.lastWritten) {
		return nil
	}

	dir := filepath.Dir(s.config.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.config.Path)+".*.tmp")
	if err != nil {
		s.metrics.Add(saveErrorsMetricKey, 1)
		return fmt.Errorf("persist: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.metrics.Add(saveErrorsMetricKey, 1)
		return fmt.Errorf("persist: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.metrics.Add(saveErrorsMetricKey, 1)
		return fmt.Errorf("persist: close temp: %w", err)
	}

	previous := s.lastWritten
	// Recorded before the rename so the watcher recognises the event.
	s.lastWritten = data
	if err := os.Rename(tmpName, s.config.Path); err != nil {
		s.lastWritten = previous
		os.Remove(tmpName)
		s.metrics.Add(saveErrorsMetricKey, 1)
		return fmt.Errorf("persist: rename %s: %w", s.config.Path, err)
	}
	s.metrics.Add(savesMetricKey, 1)
	return nil
}
