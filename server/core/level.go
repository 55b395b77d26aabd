package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/spawn"
	"github.com/fsnotify/fsnotify"
)

// LoadLevel reads a TMX arena from disk.
func LoadLevel(path string) (*leveldata.ArenaData, error) {
	dir, file := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	data, err := leveldata.LoadArenaData(os.DirFS(dir), file)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}

	log.Printf("[level] loaded %s: %d platforms, %d spawn points, %dx%d map",
		leveldata.LevelName(path), len(data.Platforms), len(data.SpawnPoints), data.MapWidth, data.MapHeight)
	return data, nil
}

// ReloadSpawnPoints re-reads the level at path and replaces the spawn points
// in target. Platforms are not reloaded while the server runs.
func ReloadSpawnPoints(path string, target *spawn.LiveSource) error {
	data, err := LoadLevel(path)
	if err != nil {
		return err
	}
	target.Replace(spawn.FromLevel(data.SpawnPoints))
	return nil
}

const reloadDebounce = 100 * time.Millisecond

// LevelWatcher reloads spawn points whenever the level file changes on disk.
type LevelWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	target  *spawn.LiveSource

	// Reloaded receives the outcome of every reload attempt.
	Reloaded chan error

	closeCh chan struct{}
	once    sync.Once
}

// WatchLevel starts watching the directory holding path. Editors often save
// by renaming over the file, so the directory is watched rather than the file.
func WatchLevel(path string, target *spawn.LiveSource) (*LevelWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch level: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	lw := &LevelWatcher{
		watcher:  w,
		path:     path,
		target:   target,
		Reloaded: make(chan error, 4),
		closeCh:  make(chan struct{}),
	}
	go lw.run()
	return lw, nil
}

func (lw *LevelWatcher) Close() error {
	var err error
	lw.once.Do(func() {
		close(lw.closeCh)
		err = lw.watcher.Close()
	})
	return err
}

func (lw *LevelWatcher) run() {
	defer close(lw.Reloaded)

	want := filepath.Clean(lw.path)

	// Saves arrive as bursts of events; reload once the burst settles.
	debounce := time.NewTimer(reloadDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-lw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != want {
				continue
			}
			debounce.Reset(reloadDebounce)
		case <-debounce.C:
			err := ReloadSpawnPoints(lw.path, lw.target)
			if err != nil {
				log.Printf("[level] reload failed: %v", err)
			} else {
				log.Printf("[level] spawn points reloaded from %s", lw.path)
			}
			select {
			case lw.Reloaded <- err:
			default:
			}
		case err, ok := <-lw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[level] watcher error: %v", err)
		case <-lw.closeCh:
			return
		}
	}
}
