package ifupdown

import (
	"context"
	"fmt"
	"sync"

	"golang-ifupdown/internal/pkg/convergence"
	"golang-ifupdown/internal/pkg/iface"
	"golang-ifupdown/internal/pkg/logging"
	"golang-ifupdown/internal/port"
)

const (
	filePerm = 0644
	dirPerm  = 0755
)

// Store observes and applies interface configuration as one stanza file per interface under
// the interface's location directory.
type Store struct {
	fileMgr port.FileManager

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Ensure Store serves as both sides of the convergence engine
var (
	_ convergence.Observer = (*Store)(nil)
	_ convergence.Applier  = (*Store)(nil)
)

// NewStore creates a stanza store backed by the given file manager.
func NewStore(fileMgr port.FileManager) *Store {
	return &Store{
		fileMgr: fileMgr,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Observe reads the stanza file for desired and returns the live configuration, or nil when
// the file or the interface's stanza does not exist. A stanza that does not parse or holds
// values outside the schema is reported as convergence.ErrInvalidLiveState, so it gets rewritten.
func (s *Store) Observe(ctx context.Context, desired *iface.Config) (*iface.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := desired.Path()
	logger := logging.WithComponentAndInterface("ifupdown", desired.Name).WithField("path", path)

	if !s.fileMgr.FileExists(path) {
		logger.Debug("No stanza file on disk")
		return nil, nil
	}

	data, err := s.fileMgr.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw, found, err := Parse(data, desired.Name)
	if err != nil {
		logger.WithError(err).Warn("Stanza file does not parse")
		return nil, fmt.Errorf("%w: %s: %w", convergence.ErrInvalidLiveState, path, err)
	}
	if !found {
		logger.Debug("Stanza file has no stanza for interface")
		return nil, nil
	}
	raw["location"] = desired.Location

	live, err := iface.Normalize(raw)
	if err != nil {
		logger.WithError(err).Warn("Stanza holds values outside the schema")
		return nil, fmt.Errorf("%w: %s: %w", convergence.ErrInvalidLiveState, path, err)
	}
	return live, nil
}

// Apply writes the stanza for desired, replacing the interface's file.
func (s *Store) Apply(ctx context.Context, desired *iface.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := desired.Path()
	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if err := s.fileMgr.MkdirAll(desired.Location, dirPerm); err != nil {
		return err
	}
	if err := s.fileMgr.WriteFile(path, Render(desired), filePerm); err != nil {
		return err
	}

	logging.WithComponentAndInterface("ifupdown", desired.Name).WithField("path", path).Info("Wrote interface stanza")
	return nil
}

func (s *Store) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[path] = lock
	}
	return lock
}
