package persist

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"tower-survival/server/internal/telemetry"
	"tower-survival/server/internal/world"
)

// Watcher reports edits to the save file made by anything other than the
// store itself.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	target   string
	onChange func(world.PersistentPatch)
	logger   telemetry.Logger
	lastSeen []byte
}

// NewWatcher watches the directory holding the store's save file.
func NewWatcher(store *Store, onChange func(world.PersistentPatch), logger telemetry.Logger) (*Watcher, error) {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	target, err := filepath.Abs(store.Path())
	if err != nil {
		return nil, fmt.Errorf("persist: resolve %s: %w", store.Path(), err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("persist: watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("persist: watch %s: %w", filepath.Dir(target), err)
	}
	return &Watcher{
		store:    store,
		watcher:  fw,
		target:   target,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != w.target {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("save watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.target)
	if err != nil {
		return
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, w.lastSeen) || w.store.Written(data) {
		return
	}
	patch, err := Decode(data)
	if err != nil {
		// Editors may write in several steps; a later event carries the
		// complete document.
		w.logger.Printf("ignoring unreadable save edit: %v", err)
		return
	}
	w.lastSeen = data
	w.logger.Printf("save file changed on disk, reloading")
	if w.onChange != nil {
		w.onChange(patch)
	}
}
