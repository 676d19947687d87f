package instance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/jonwraymond/boardops/secret"
)

// Manager loads and resolves instance configuration.
//
// Contract:
// - Concurrency: safe for concurrent use after construction.
// - Lifecycle: accessors other than IsConfigured fail with ErrNotLoaded
//   until a Load succeeds. A failed Load leaves prior state untouched.
// - Secrecy: resolved tokens are returned to the caller and never logged
//   or embedded in errors.
type Manager struct {
	env secret.Source

	mu     sync.RWMutex
	loaded bool
	legacy bool
	cfg    *Config
	origin string
}

// NewManager creates an unconfigured manager reading environment slots
// from src. A nil src means the process environment.
func NewManager(src secret.Source) *Manager {
	if src == nil {
		src = secret.EnvSource{}
	}
	return &Manager{env: src}
}

// Load locates, parses, and validates a configuration document.
//
// Sources are consulted in precedence order: the explicit opts.Path, an
// inline document in EnvConfig, the DefaultPaths locations, then (when
// opts.AllowLegacy) the legacy environment pair. The first source that
// yields a document wins; later sources are not merged in. When every
// source is empty, Load fails only if opts.Strict is set.
func (m *Manager) Load(opts LoadOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if opts.Path != "" {
		doc, err := os.ReadFile(opts.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, opts.Path)
			}
			return fmt.Errorf("instance: reading %s: %w", opts.Path, err)
		}
		return m.adoptLocked(doc, opts.Path)
	}

	var searched []string

	if doc, ok := lookupNonBlank(m.env, EnvConfig); ok {
		return m.adoptLocked([]byte(doc), "$"+EnvConfig)
	}
	searched = append(searched, "$"+EnvConfig)

	for _, path := range DefaultPaths() {
		doc, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				searched = append(searched, path)
				continue
			}
			return fmt.Errorf("instance: reading %s: %w", path, err)
		}
		return m.adoptLocked(doc, path)
	}

	if opts.AllowLegacy {
		cfg, err := legacyFromEnv(m.env)
		if err != nil {
			return err
		}
		if cfg != nil {
			m.cfg = cfg
			m.loaded = true
			m.legacy = true
			m.origin = "legacy environment"
			return nil
		}
		searched = append(searched, "$"+EnvAPIURL+"+$"+EnvAPIToken)
	}

	if opts.Strict {
		return &NotFoundError{Searched: searched}
	}
	return nil
}

// adoptLocked parses, expands, validates, and installs a document.
func (m *Manager) adoptLocked(doc []byte, origin string) error {
	var cfg Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return fmt.Errorf("%w (%s): %v", ErrInvalidJSON, origin, err)
	}

	// API URLs may reference environment variables; expand before
	// validating so the URL check sees the final value.
	for i := range cfg.Instances {
		expanded, err := secret.Expand(cfg.Instances[i].APIURL, m.env)
		if err != nil {
			return fmt.Errorf("instance: expanding apiUrl for instance %q: %w", cfg.Instances[i].Name, err)
		}
		cfg.Instances[i].APIURL = expanded
	}

	if err := Validate(&cfg); err != nil {
		return err
	}

	m.cfg = &cfg
	m.loaded = true
	m.legacy = false
	m.origin = origin
	return nil
}

// Resolve selects the active instance for name and loads its credential.
//
// Under a legacy configuration the synthesized instance always wins,
// regardless of name. Otherwise a non-empty name must match a configured
// instance exactly, and an empty name selects the document's default.
// The credential is loaded from the instance's APITokenEnv slot; a
// missing or blank slot fails with a TokenError naming slot and
// instance, never a resolution with an empty token.
func (m *Manager) Resolve(name string) (*Resolution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return nil, ErrNotLoaded
	}

	var (
		inst     *Instance
		strategy Strategy
	)
	switch {
	case m.legacy:
		strategy = StrategyLegacy
		inst = &m.cfg.Instances[0]
	case name != "":
		strategy = StrategyExplicit
		inst = m.findLocked(name)
		if inst == nil {
			return nil, &InstanceNotFoundError{Name: name}
		}
	default:
		strategy = StrategyDefault
		inst = m.findLocked(m.cfg.DefaultInstance)
		if inst == nil {
			// Validation guarantees the default exists; guard the
			// invariant anyway.
			return nil, fmt.Errorf("%w: %q", ErrDefaultInstanceNotFound, m.cfg.DefaultInstance)
		}
	}

	token, ok := lookupNonBlank(m.env, inst.APITokenEnv)
	if !ok {
		return nil, &TokenError{Slot: inst.APITokenEnv, Instance: inst.Name}
	}

	return &Resolution{Instance: *inst, Strategy: strategy, Token: token}, nil
}

func (m *Manager) findLocked(name string) *Instance {
	for i := range m.cfg.Instances {
		if m.cfg.Instances[i].Name == name {
			return &m.cfg.Instances[i]
		}
	}
	return nil
}

// Instances returns a copy of every configured instance.
func (m *Manager) Instances() ([]Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]Instance, len(m.cfg.Instances))
	copy(out, m.cfg.Instances)
	return out, nil
}

// DefaultInstanceName returns the name of the configured default
// instance.
func (m *Manager) DefaultInstanceName() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return "", ErrNotLoaded
	}
	return m.cfg.DefaultInstance, nil
}

// HasInstance reports whether an instance with the given name exists.
func (m *Manager) HasInstance(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return false, ErrNotLoaded
	}
	return m.findLocked(name) != nil, nil
}

// LegacyMode reports whether the loaded configuration was synthesized
// from the legacy environment variables.
func (m *Manager) LegacyMode() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return false, ErrNotLoaded
	}
	return m.legacy, nil
}

// IsConfigured reports whether configuration has been loaded. Unlike the
// other accessors it never fails: before Load it reports false.
func (m *Manager) IsConfigured() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Origin describes where the loaded configuration came from, for
// diagnostics.
func (m *Manager) Origin() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return "", ErrNotLoaded
	}
	return m.origin, nil
}
