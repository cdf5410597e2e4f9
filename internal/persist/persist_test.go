package persist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tower-survival/server/internal/economy"
	"tower-survival/server/internal/world"
)

func newTestStore(t *testing.T, debounce time.Duration) *Store {
	t.Helper()
	return NewStore(StoreConfig{
		Path:     filepath.Join(t.TempDir(), "save.json"),
		Debounce: debounce,
		Interval: time.Hour,
	}, nil, nil)
}

func sampleState() world.PersistentState {
	return world.PersistentState{
		Coin:     120,
		Gem:      3,
		Meta:     economy.MetaLevels{Damage: 2, Range: 1},
		BestWave: 14,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDecodeToleratesPartialSaves(t *testing.T) {
	patch, err := Decode([]byte(`{"coin":"lots","gem":4.7,"meta":{"damage":3,"range":null},"extra":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patch.Coin != nil {
		t.Fatalf("non-numeric coin must be skipped")
	}
	if patch.Gem == nil || *patch.Gem != 4 {
		t.Fatalf("expected floored gem 4, got %v", patch.Gem)
	}
	if patch.Meta.Damage == nil || *patch.Meta.Damage != 3 {
		t.Fatalf("expected meta damage 3")
	}
	if patch.Meta.Range != nil || patch.Meta.Health != nil || patch.BestWave != nil {
		t.Fatalf("absent fields must stay nil: %+v", patch)
	}

	patch, err = Decode([]byte(`{"meta":"broken"}`))
	if err != nil || patch.Meta.Damage != nil {
		t.Fatalf("malformed meta should be ignored, got %+v %v", patch, err)
	}

	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for non-object document")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Millisecond)
	if _, ok, err := store.Load(); ok || err != nil {
		t.Fatalf("missing file should load as absent, got %v %v", ok, err)
	}
	if err := store.Save(sampleState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"coin\": 120") {
		t.Fatalf("expected indented json, got %s", data)
	}
	entries, _ := os.ReadDir(filepath.Dir(store.Path()))
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}

	patch, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("load: %v %v", ok, err)
	}
	w := world.New(world.Config{}, world.Deps{})
	w.LoadPersistentState(patch)
	if got := w.PersistentState(); got != sampleState() {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRequestSaveDebounces(t *testing.T) {
	store := newTestStore(t, 20*time.Millisecond)
	first := sampleState()
	second := sampleState()
	second.Coin = 500
	store.RequestSave(first)
	store.RequestSave(second)

	waitFor(t, func() bool {
		_, err := os.Stat(store.Path())
		return err == nil
	})
	patch, _, err := store.Load()
	if err != nil || patch.Coin == nil || *patch.Coin != 500 {
		t.Fatalf("expected latest state written, got %+v %v", patch, err)
	}
}

func TestFlushSkipsUnchangedState(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if err := store.Flush(); err != nil {
		t.Fatalf("flush without state: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("nothing observed, nothing written")
	}
	store.Observe(sampleState())
	if err := store.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	epoch := time.Unix(0, 0)
	if err := os.Chtimes(store.Path(), epoch, epoch); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := store.Flush(); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	info, err := os.Stat(store.Path())
	if err != nil || !info.ModTime().Equal(epoch) {
		t.Fatalf("unchanged state should not be rewritten")
	}
}

func TestResetRemovesFile(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if err := store.Save(sampleState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, got %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("resetting a missing file should succeed: %v", err)
	}
}

func TestRunFlushesOnShutdown(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx)
		close(done)
	}()
	store.Observe(sampleState())
	cancel()
	<-done
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected final flush to write file: %v", err)
	}
}

func TestWatcherReportsExternalEdits(t *testing.T) {
	store := newTestStore(t, time.Hour)
	changes := make(chan world.PersistentPatch, 4)
	watcher, err := NewWatcher(store, func(p world.PersistentPatch) { changes <- p }, nil)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	if err := store.Save(sampleState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte(`{"coin": 999}`), 0o644); err != nil {
		t.Fatalf("external write: %v", err)
	}

	select {
	case patch := <-changes:
		if patch.Coin == nil || *patch.Coin != 999 {
			t.Fatalf("expected external coin 999, got %+v", patch)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("external edit not reported")
	}
}
