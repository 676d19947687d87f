package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonwraymond/boardops/secret"
)

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// Path is an explicitly supplied config file path. When set it is
	// the only source consulted; a missing file is an error, not a
	// fallthrough.
	Path string

	// AllowLegacy permits synthesizing a single-instance configuration
	// from EnvAPIURL and EnvAPIToken when no document is found.
	AllowLegacy bool

	// Strict makes Load fail with a not-found error when every source
	// comes up empty. Otherwise the manager just stays unconfigured.
	Strict bool
}

// DefaultPaths returns the default config file locations in precedence
// order: project-local, per-user home, then the platform config
// directory.
func DefaultPaths() []string {
	paths := []string{".boardops.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".boardops.json"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "boardops", "config.json"))
	}
	return paths
}

// lookupNonBlank reads a value from src, treating blank as absent.
func lookupNonBlank(src secret.Source, name string) (string, bool) {
	v, ok := src.Lookup(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// legacyFromEnv synthesizes a one-instance configuration from the legacy
// environment pair. It returns (nil, nil) when neither variable is set.
// A partial pair is an error: a typo'd environment should fail loudly
// instead of silently falling through to "not configured".
func legacyFromEnv(env secret.Source) (*Config, error) {
	apiURL, urlOK := lookupNonBlank(env, EnvAPIURL)
	_, tokOK := lookupNonBlank(env, EnvAPIToken)
	if !urlOK && !tokOK {
		return nil, nil
	}
	if !urlOK {
		return nil, fmt.Errorf("%w: %s is set but %s is not", ErrLegacyIncomplete, EnvAPIToken, EnvAPIURL)
	}
	if !tokOK {
		return nil, fmt.Errorf("%w: %s is set but %s is not", ErrLegacyIncomplete, EnvAPIURL, EnvAPIToken)
	}

	inst := Instance{
		Name:        LegacyInstanceName,
		APIURL:      apiURL,
		APITokenEnv: EnvAPIToken,
		Description: "synthesized from legacy environment variables",
	}
	if v, ok := lookupNonBlank(env, EnvReadOnly); ok {
		inst.ReadOnlyMode = parseBool(v)
	}
	if v, ok := lookupNonBlank(env, EnvWorkspaceID); ok {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrLegacyIncomplete, EnvWorkspaceID, v)
		}
		inst.DefaultWorkspaceID = id
	}

	return &Config{
		Version:         "1.0",
		DefaultInstance: LegacyInstanceName,
		Instances:       []Instance{inst},
	}, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
