package codebase

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher keeps a Codebase in sync with the .quest files under its
// root directory.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase: c,
		watcher:  watcher,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start scans the root once, then watches for changes. Watches are not
// recursive, so every directory is registered up front and new ones as
// they appear.
func (w *FileWatcher) Start() {
	filepath.Walk(w.codebase.RootDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != w.codebase.RootDir() {
				return filepath.SkipDir
			}
			w.watcher.Add(path)
			return nil
		}
		if filepath.Ext(path) == ".quest" {
			w.codebase.ScanFile(path)
		}
		return nil
	})

	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *FileWatcher) run() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *FileWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				w.watcher.Add(event.Name)
			}
			return
		}
	}

	if filepath.Ext(event.Name) != ".quest" {
		return
	}

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.codebase.ScanFile(event.Name)
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.codebase.RemoveFile(event.Name)
	}
}
