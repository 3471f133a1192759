package prefs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"

	modeKey = "ui_mode"
)

var ErrUnknownMode = errors.New("unknown ui mode")

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLight, ModeDark:
		return m, nil
	default:
		return "", errors.Wrapf(ErrUnknownMode, "%q", s)
	}
}

// Store holds the light/dark UI mode, persists it to a file and notifies
// subscribers on every change.
type Store struct {
	mu     sync.Mutex
	v      *viper.Viper
	path   string
	mode   Mode
	subs   map[int]chan Mode
	nextID int
	logger *zap.SugaredLogger
}

// Open loads the persisted mode from path, which needs a .yaml or .yml
// extension. A missing file or unreadable value falls back to system.
func Open(path string, system Mode, logger *zap.SugaredLogger) (*Store, error) {
	if _, err := ParseMode(string(system)); err != nil {
		system = ModeDark
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(modeKey, string(system))

	s := &Store{
		v:      v,
		path:   path,
		subs:   map[int]chan Mode{},
		logger: logger,
	}
	if err := s.read(); err != nil {
		return nil, err
	}
	m, err := ParseMode(v.GetString(modeKey))
	if err != nil {
		logger.Warnw("ignoring stored ui mode", "path", path, "error", err)
		m = system
	}
	s.mode = m
	return s, nil
}

func (s *Store) read() error {
	err := s.v.ReadInConfig()
	if err == nil || os.IsNotExist(err) || errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return errors.Wrapf(err, "read %s", s.path)
}

func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Set persists m and notifies subscribers when it differs from the current mode.
func (s *Store) Set(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m == s.mode {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create prefs dir")
	}
	out := viper.New()
	out.SetConfigType("yaml")
	out.Set(modeKey, string(m))
	if err := out.WriteConfigAs(s.path); err != nil {
		return errors.Wrapf(err, "write %s", s.path)
	}
	s.apply(m)
	return nil
}

func (s *Store) Toggle() (Mode, error) {
	next := ModeDark
	if s.Mode() == ModeDark {
		next = ModeLight
	}
	return next, s.Set(next)
}

// Subscribe returns a channel carrying the latest mode after each change. Slow
// readers only see the most recent value. The returned func unsubscribes.
func (s *Store) Subscribe() (<-chan Mode, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Mode, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// Watch reloads the file when another process changes it, until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	// Watch the directory: editors and viper replace the file rather than write in place.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create prefs dir")
	}
	if err := w.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.reload()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warnw("prefs watcher", "error", err)
		}
	}
}

func (s *Store) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.read(); err != nil {
		s.logger.Warnw("reload prefs", "error", err)
		return
	}
	if !s.v.InConfig(modeKey) {
		return
	}
	m, err := ParseMode(s.v.GetString(modeKey))
	if err != nil || m == s.mode {
		return
	}
	s.apply(m)
}

// apply must be called with mu held.
func (s *Store) apply(m Mode) {
	s.mode = m
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- m
	}
}
