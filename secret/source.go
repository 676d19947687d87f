package secret

import "os"

// Source is an environment-equivalent store of named credential slots.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Semantics: Lookup reports presence; an empty value with ok=true is
//   distinct from an absent slot.
type Source interface {
	// Lookup returns the value of the named slot and whether it is set.
	Lookup(name string) (string, bool)
}

// EnvSource reads slots from the process environment.
type EnvSource struct{}

// Lookup returns the value of the environment variable name.
func (EnvSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// StaticSource is a fixed in-memory Source, primarily for tests.
type StaticSource map[string]string

// Lookup returns the value for name from the map.
func (s StaticSource) Lookup(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// Ensure implementations satisfy Source
var (
	_ Source = EnvSource{}
	_ Source = StaticSource{}
)
