package instance

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Version:         "1.0",
		DefaultInstance: "prod",
		Instances: []Instance{
			{Name: "prod", APIURL: "https://prod.example.com/api/v2", APITokenEnv: "PROD_TOKEN"},
			{Name: "staging", APIURL: "https://staging.example.com/api/v2", APITokenEnv: "STAGING_TOKEN", ReadOnlyMode: true, DefaultWorkspaceID: 12},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing version", func(c *Config) { c.Version = "" }, "version"},
		{"malformed version", func(c *Config) { c.Version = "v1" }, "version"},
		{"missing default", func(c *Config) { c.DefaultInstance = "" }, "defaultInstance"},
		{"default not present", func(c *Config) { c.DefaultInstance = "nope" }, "defaultInstance"},
		{"no instances", func(c *Config) { c.Instances = nil }, "instances"},
		{"duplicate names", func(c *Config) { c.Instances[1].Name = "prod" }, "instances[1].name"},
		{"missing name", func(c *Config) { c.Instances[1].Name = "" }, "instances[1].name"},
		{"missing url", func(c *Config) { c.Instances[0].APIURL = "" }, "instances[0].apiUrl"},
		{"relative url", func(c *Config) { c.Instances[0].APIURL = "/api/v2" }, "instances[0].apiUrl"},
		{"unsupported scheme", func(c *Config) { c.Instances[0].APIURL = "ftp://example.com" }, "instances[0].apiUrl"},
		{"missing token env", func(c *Config) { c.Instances[0].APITokenEnv = "" }, "instances[0].apiTokenEnv"},
		{"negative workspace id", func(c *Config) { c.Instances[1].DefaultWorkspaceID = -3 }, "instances[1].defaultWorkspaceId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %T, want *ValidationError", err)
			}
			found := false
			for _, v := range verr.Violations {
				if v.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("violations %v do not name field %q", verr.Violations, tt.field)
			}
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	cfg := &Config{
		Version:         "one",
		DefaultInstance: "ghost",
		Instances: []Instance{
			{Name: "a", APIURL: "not-a-url", APITokenEnv: ""},
			{Name: "a", APIURL: "", APITokenEnv: "A_TOKEN", DefaultWorkspaceID: -1},
		},
	}
	err := Validate(cfg)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}

	want := []string{
		"version",
		"instances[0].apiUrl",
		"instances[0].apiTokenEnv",
		"instances[1].name",
		"instances[1].apiUrl",
		"instances[1].defaultWorkspaceId",
		"defaultInstance",
	}
	got := make(map[string]bool)
	for _, v := range verr.Violations {
		got[v.Field] = true
	}
	for _, f := range want {
		if !got[f] {
			t.Errorf("violations missing field %q: %v", f, verr.Violations)
		}
	}
	if len(verr.Violations) != len(want) {
		t.Errorf("len(Violations) = %d, want %d: %v", len(verr.Violations), len(want), verr.Violations)
	}

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("ValidationError does not unwrap to ErrInvalidConfig")
	}
	if !strings.Contains(err.Error(), "instances[1].name") {
		t.Errorf("error message %q does not name the duplicate field", err)
	}
}
