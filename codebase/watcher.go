package codebase

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher keeps a Codebase in sync with the files on disk.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	onChange func(path string)
}

// NewFileWatcher watches the root directory of c and every non-hidden
// directory below it. onChange, if not nil, is called with the path of every
// file that was parsed or removed.
func NewFileWatcher(c *Codebase, onChange func(path string)) (*FileWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &FileWatcher{
		codebase: c,
		watcher:  fw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		onChange: onChange,
	}
	if err := w.addTree(c.RootDir()); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *FileWatcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if skipDir(path, root, info) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *FileWatcher) Start() {
	go w.run()
}

// Stop ends the event loop and waits for it to return.
func (w *FileWatcher) Stop() error {
	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh
	return err
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *FileWatcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if w.codebase.GetFile(ev.Name) == nil {
			return
		}
		w.codebase.RemoveFile(ev.Name)
		log.Infof("removed %s", ev.Name)
		w.changed(ev.Name)
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log.Errorf("watch %s: %s", ev.Name, err)
			}
			return
		}
		if !IsSource(ev.Name) {
			return
		}
		before := w.codebase.GetFile(ev.Name)
		if err := w.codebase.ScanFile(ev.Name); err != nil {
			log.Errorf("scan %s: %s", ev.Name, err)
			return
		}
		if w.codebase.GetFile(ev.Name) != before {
			w.changed(ev.Name)
		}
	}
}

func (w *FileWatcher) changed(path string) {
	if w.onChange != nil {
		w.onChange(path)
	}
}
