package registry

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Mirror serves registry documents from a local checkout of the
// dpyc-community repo, overriding remote fetches for matching paths.
// Useful for offline work and for testing governance drafts before
// they land upstream.
type Mirror struct {
	dir       string
	patterns  []string
	fsWatcher *fsnotify.Watcher
	mu        sync.RWMutex
	files     map[string][]byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewMirror(dir string, patterns []string) (*Mirror, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	m := &Mirror{
		dir:       dir,
		patterns:  patterns,
		fsWatcher: fsWatcher,
		files:     make(map[string][]byte),
		done:      make(chan struct{}),
	}

	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	m.walkAndAdd(dir)

	go m.watchLoop()

	return m, nil
}

func (m *Mirror) walkAndAdd(path string) {
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Debug("failed to read mirror directory", "path", path, "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(path, entry.Name())
		if err := m.fsWatcher.Add(fullPath); err != nil {
			log.Debug("failed to watch mirror directory", "path", fullPath, "error", err)
			continue
		}
		m.walkAndAdd(fullPath)
	}
}

// Lookup returns the mirrored content of a registry path, loading it
// lazily. Paths outside the configured patterns never hit the mirror.
func (m *Mirror) Lookup(path string) ([]byte, bool) {
	if !m.matches(path) {
		return nil, false
	}

	m.mu.RLock()
	body, ok := m.files[path]
	m.mu.RUnlock()
	if ok {
		return body, true
	}

	body, err := os.ReadFile(filepath.Join(m.dir, filepath.FromSlash(path)))
	if err != nil {
		return nil, false
	}

	m.mu.Lock()
	m.files[path] = body
	m.mu.Unlock()

	log.Debug("serving from mirror", "path", path)
	return body, true
}

func (m *Mirror) matches(path string) bool {
	for _, pattern := range m.patterns {
		if match, _ := doublestar.Match(pattern, path); match {
			return true
		}
	}
	return false
}

func (m *Mirror) watchLoop() {
	for {
		select {
		case <-m.done:
			return
		case event, ok := <-m.fsWatcher.Events:
			if !ok {
				return
			}
			m.handleEvent(event)
		case err, ok := <-m.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn("mirror watch error", "error", err)
		}
	}
}

func (m *Mirror) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(m.dir, event.Name)
	if err != nil {
		return
	}
	path := filepath.ToSlash(rel)

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			m.fsWatcher.Add(event.Name)
			m.walkAndAdd(event.Name)
		}
	}

	m.mu.Lock()
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		log.Info("mirror file changed, dropping cached copy", "path", path, "op", event.Op.String())
	}
	m.mu.Unlock()
}

func (m *Mirror) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.done)
		err = m.fsWatcher.Close()
	})
	return err
}
