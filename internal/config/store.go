package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 150 * time.Millisecond

// Store hands the current configuration to exercises. Until the first
// configuration arrives Current reports not ready, and exercises wait
// instead of running with half a setup.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
	log *slog.Logger
}

func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{log: log}
}

// NewStaticStore is a store that is ready from the start.
func NewStaticStore(cfg *Config) *Store {
	s := NewStore(nil)
	s.Set(cfg)
	return s
}

func (s *Store) Current() (*Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.cfg != nil
}

func (s *Store) Set(cfg *Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// LoadAsync loads path in the background. An empty path, a missing file or
// an invalid file all fall back to defaults; the preset is applied on top.
// The returned channel is closed once the store is ready.
func (s *Store) LoadAsync(path, preset string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Set(s.load(path, preset))
	}()
	return done
}

func (s *Store) load(path, preset string) *Config {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			s.log.Warn("config load failed, using defaults", "path", path, "err", err)
		} else {
			cfg = loaded
			s.log.Info("config loaded", "path", path)
		}
	}
	if preset != "" {
		if err := ApplyPreset(cfg, preset); err != nil {
			s.log.Warn("preset ignored", "err", err)
		}
	}
	return cfg
}

// Watch reloads path whenever it changes until ctx is done. A reload that
// fails to parse or validate keeps the previous configuration.
func (s *Store) Watch(ctx context.Context, path, preset string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors replace files on save.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		target := filepath.Clean(path)
		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				pending = time.After(reloadDebounce)
			case <-pending:
				pending = nil
				s.reload(path, preset)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("config watch error", "err", err)
			}
		}
	}()
	return nil
}

func (s *Store) reload(path, preset string) {
	cfg, err := Load(path)
	if err != nil {
		s.log.Warn("config reload rejected", "path", path, "err", err)
		return
	}
	if preset != "" {
		if err := ApplyPreset(cfg, preset); err != nil {
			s.log.Warn("preset ignored", "err", err)
		}
	}
	s.Set(cfg)
	s.log.Info("config reloaded", "path", path)
}
