// Package registry persists slot configurations in a single YAML document.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"dicehook/internal/fsutil"
	"dicehook/internal/logger"
	"dicehook/pkg/slot"
)

// ErrNotFound is returned by Get when no slot has the requested name.
var ErrNotFound = errors.New("slot not registered")

// document is the on-disk shape of slots.yaml.
type document struct {
	Slots map[string]slot.Config `yaml:"slots"`
}

// Store is the file-backed slot registry. Methods are safe for concurrent
// use within one process; across processes the last writer wins.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a registry backed by the YAML file at path. The file is
// created on the first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the registry document.
func (s *Store) Path() string { return s.path }

// load reads the document. A missing or unparsable file yields an empty
// registry; corruption is logged, not returned.
func (s *Store) load(ctx context.Context) (map[string]slot.Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]slot.Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		logger.FromContext(ctx).Warn("registry unreadable, treating as empty", "path", s.path, "error", err)
		return map[string]slot.Config{}, nil
	}
	if doc.Slots == nil {
		doc.Slots = map[string]slot.Config{}
	}
	for name, cfg := range doc.Slots {
		cfg.Name = name
		doc.Slots[name] = cfg
	}
	return doc.Slots, nil
}

func (s *Store) save(slots map[string]slot.Config) error {
	data, err := yaml.Marshal(document{Slots: slots})
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// Register upserts the slot called name: the patch is merged over the
// recorded config, or over slot.Defaults when the slot is new. The merged
// config is validated before it is written.
func (s *Store) Register(ctx context.Context, name string, p slot.Patch) (slot.Config, error) {
	if err := slot.ValidateName(name); err != nil {
		return slot.Config{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load(ctx)
	if err != nil {
		return slot.Config{}, err
	}

	base, ok := slots[name]
	if !ok {
		base = slot.Defaults(name)
	}
	cfg := p.Apply(base)
	if err := cfg.Validate(); err != nil {
		return slot.Config{}, err
	}

	slots[name] = cfg
	if err := s.save(slots); err != nil {
		return slot.Config{}, err
	}
	return cfg, nil
}

// Put stores cfg as-is, replacing any existing slot with the same name.
func (s *Store) Put(ctx context.Context, cfg slot.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load(ctx)
	if err != nil {
		return err
	}
	slots[cfg.Name] = cfg
	return s.save(slots)
}

// Unregister removes name and reports whether it existed.
func (s *Store) Unregister(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := slots[name]; !ok {
		return false, nil
	}
	delete(slots, name)
	if err := s.save(slots); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the slot called name or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (slot.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load(ctx)
	if err != nil {
		return slot.Config{}, err
	}
	cfg, ok := slots[name]
	if !ok {
		return slot.Config{}, ErrNotFound
	}
	return cfg, nil
}

// List returns every registered slot sorted by name.
func (s *Store) List(ctx context.Context) ([]slot.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]slot.Config, 0, len(slots))
	for _, cfg := range slots {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
