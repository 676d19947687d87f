package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonwraymond/boardops/instance"
)

func TestVersionString(t *testing.T) {
	got := versionString()
	if !strings.HasPrefix(got, "boardops dev (none, unknown, go") {
		t.Errorf("versionString() = %q, want dev/none/unknown prefix", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "instances", "config"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("rootCmd is missing the %q command", name)
		}
	}
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := newServeCmd()
	for _, name := range []string{"http", "instance", "telemetry", "trace-exporter", "metrics-exporter", "sample-pct"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("serve is missing the --%s flag", name)
		}
	}
	if got := cmd.Flags().Lookup("trace-exporter").DefValue; got != "otlp" {
		t.Errorf("--trace-exporter default = %q, want %q", got, "otlp")
	}
}

func TestLoadManager_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{
  "version": "1.0",
  "defaultInstance": "prod",
  "instances": [
    {"name": "prod", "apiUrl": "https://acme.kanbanize.com/api/v2", "apiTokenEnv": "PROD_TOKEN"}
  ]
}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	orig := configPath
	configPath = path
	defer func() { configPath = orig }()

	mgr, err := loadManager(true)
	if err != nil {
		t.Fatalf("loadManager() error = %v", err)
	}
	instances, err := mgr.Instances()
	if err != nil {
		t.Fatalf("Instances() error = %v", err)
	}
	if len(instances) != 1 || instances[0].Name != "prod" {
		t.Errorf("Instances() = %+v, want one instance named prod", instances)
	}
	origin, err := mgr.Origin()
	if err != nil {
		t.Fatalf("Origin() error = %v", err)
	}
	if origin != path {
		t.Errorf("Origin() = %q, want %q", origin, path)
	}
}

func TestLoadManager_ExplicitPathMissing(t *testing.T) {
	orig := configPath
	configPath = filepath.Join(t.TempDir(), "nope.json")
	defer func() { configPath = orig }()

	if _, err := loadManager(true); !errors.Is(err, instance.ErrFileNotFound) {
		t.Errorf("loadManager() error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadManager_EnvDocument(t *testing.T) {
	orig := configPath
	configPath = ""
	defer func() { configPath = orig }()

	t.Setenv(instance.EnvConfig, `{
  "version": "1.0",
  "defaultInstance": "main",
  "instances": [
    {"name": "main", "apiUrl": "https://acme.kanbanize.com/api/v2", "apiTokenEnv": "MAIN_TOKEN"}
  ]
}`)

	mgr, err := loadManager(true)
	if err != nil {
		t.Fatalf("loadManager() error = %v", err)
	}
	name, err := mgr.DefaultInstanceName()
	if err != nil {
		t.Fatalf("DefaultInstanceName() error = %v", err)
	}
	if name != "main" {
		t.Errorf("DefaultInstanceName() = %q, want %q", name, "main")
	}
}
