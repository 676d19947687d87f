package instance

import (
	"fmt"
	"net/url"
	"regexp"
)

// versionRE matches the required major.minor version string.
var versionRE = regexp.MustCompile(`^\d+\.\d+$`)

// Validate checks a configuration document against its structural and
// referential invariants. It collects every violation instead of stopping
// at the first, so a broken document can be fixed in one pass.
func Validate(cfg *Config) error {
	var violations []Violation
	add := func(field, format string, args ...any) {
		violations = append(violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Version == "" {
		add("version", "required")
	} else if !versionRE.MatchString(cfg.Version) {
		add("version", "must be major.minor, got %q", cfg.Version)
	}

	if cfg.DefaultInstance == "" {
		add("defaultInstance", "required")
	}

	if len(cfg.Instances) == 0 {
		add("instances", "at least one instance is required")
	}

	seen := make(map[string]bool, len(cfg.Instances))
	defaultExists := false
	for i, inst := range cfg.Instances {
		field := fmt.Sprintf("instances[%d]", i)
		if inst.Name == "" {
			add(field+".name", "required")
		} else {
			if seen[inst.Name] {
				add(field+".name", "duplicate instance name %q", inst.Name)
			}
			seen[inst.Name] = true
			if inst.Name == cfg.DefaultInstance {
				defaultExists = true
			}
		}
		if inst.APIURL == "" {
			add(field+".apiUrl", "required")
		} else if !validAPIURL(inst.APIURL) {
			add(field+".apiUrl", "must be an absolute http(s) URL, got %q", inst.APIURL)
		}
		if inst.APITokenEnv == "" {
			add(field+".apiTokenEnv", "required")
		}
		if inst.DefaultWorkspaceID < 0 {
			add(field+".defaultWorkspaceId", "must be a positive integer, got %d", inst.DefaultWorkspaceID)
		}
	}
	if cfg.DefaultInstance != "" && len(cfg.Instances) > 0 && !defaultExists {
		add("defaultInstance", "no instance named %q", cfg.DefaultInstance)
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func validAPIURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
