package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonwraymond/boardops/businessmap"
	"github.com/jonwraymond/boardops/instance"
	"github.com/jonwraymond/boardops/secret"
)

func testManager(t *testing.T, apiURL string, env map[string]string) *instance.Manager {
	t.Helper()

	doc := fmt.Sprintf(`{
  "version": "1.0",
  "defaultInstance": "prod",
  "instances": [
    {"name": "prod", "apiUrl": %q, "apiTokenEnv": "PROD_TOKEN"},
    {"name": "staging", "apiUrl": %q, "apiTokenEnv": "STAGING_TOKEN", "readOnlyMode": true}
  ]
}`, apiURL, apiURL)

	src := secret.StaticSource{instance.EnvConfig: doc}
	for k, v := range env {
		src[k] = v
	}
	mgr := instance.NewManager(src)
	if err := mgr.Load(instance.LoadOptions{}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return mgr
}

func testFactory(t *testing.T, mgr *instance.Manager) *businessmap.Factory {
	t.Helper()

	factory, err := businessmap.NewFactory(businessmap.FactoryConfig{
		Instances:        mgr,
		RetryCount:       -1,
		BreakerThreshold: 1,
	})
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

func TestConfigChecker_Unconfigured(t *testing.T) {
	c := NewConfigChecker(instance.NewManager(secret.StaticSource{}))
	if got := c.Name(); got != "config" {
		t.Errorf("Name() = %q, want %q", got, "config")
	}

	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy", result.Status)
	}
	if !errors.Is(result.Err, instance.ErrNotLoaded) {
		t.Errorf("Err = %v, want ErrNotLoaded", result.Err)
	}
}

func TestConfigChecker_Loaded(t *testing.T) {
	mgr := testManager(t, "https://acme.kanbanize.com/api/v2", map[string]string{"PROD_TOKEN": "tok"})

	result := NewConfigChecker(mgr).Check(context.Background())
	if result.Status != StatusHealthy {
		t.Fatalf("status = %v (%s), want healthy", result.Status, result.Message)
	}
	if result.Details["instances"] != 2 {
		t.Errorf("instances detail = %v, want 2", result.Details["instances"])
	}
	if result.Details["legacy"] != false {
		t.Errorf("legacy detail = %v, want false", result.Details["legacy"])
	}
	if result.Details["origin"] != "$"+instance.EnvConfig {
		t.Errorf("origin detail = %v, want env config marker", result.Details["origin"])
	}
}

func TestConfigChecker_LegacyMode(t *testing.T) {
	mgr := instance.NewManager(secret.StaticSource{
		instance.EnvAPIURL:   "https://acme.kanbanize.com/api/v2",
		instance.EnvAPIToken: "legacy-tok",
	})
	if err := mgr.Load(instance.LoadOptions{AllowLegacy: true}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	result := NewConfigChecker(mgr).Check(context.Background())
	if result.Status != StatusHealthy {
		t.Fatalf("status = %v, want healthy", result.Status)
	}
	if result.Details["legacy"] != true {
		t.Errorf("legacy detail = %v, want true", result.Details["legacy"])
	}
}

func TestInstanceChecker_Healthy(t *testing.T) {
	mgr := testManager(t, "https://acme.kanbanize.com/api/v2", map[string]string{"PROD_TOKEN": "tok"})
	factory := testFactory(t, mgr)

	c := NewInstanceChecker(factory, "prod")
	if got := c.Name(); got != "instance:prod" {
		t.Errorf("Name() = %q, want %q", got, "instance:prod")
	}

	result := c.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Fatalf("status = %v (%s), want healthy", result.Status, result.Message)
	}
	if result.Details["upstream"] != "closed" {
		t.Errorf("upstream detail = %v, want closed", result.Details["upstream"])
	}
	if result.Details["read_only"] != false {
		t.Errorf("read_only detail = %v, want false", result.Details["read_only"])
	}
}

func TestInstanceChecker_MissingToken(t *testing.T) {
	mgr := testManager(t, "https://acme.kanbanize.com/api/v2", map[string]string{"PROD_TOKEN": "tok"})
	factory := testFactory(t, mgr)

	result := NewInstanceChecker(factory, "staging").Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("status = %v, want unhealthy", result.Status)
	}
	if !errors.Is(result.Err, instance.ErrTokenMissing) {
		t.Errorf("Err = %v, want ErrTokenMissing", result.Err)
	}
}

func TestInstanceChecker_OpenCircuit(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down"}}`))
	}))
	defer upstream.Close()

	mgr := testManager(t, upstream.URL, map[string]string{"PROD_TOKEN": "tok"})
	factory := testFactory(t, mgr)

	client, err := factory.ClientFor("prod")
	if err != nil {
		t.Fatalf("ClientFor() error = %v", err)
	}
	if _, err := client.ListWorkspaces(context.Background()); err == nil {
		t.Fatal("ListWorkspaces() error = nil, want server error to trip the breaker")
	}

	result := NewInstanceChecker(factory, "prod").Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("status = %v, want unhealthy after breaker opened", result.Status)
	}
	if !errors.Is(result.Err, businessmap.ErrUpstreamUnavailable) {
		t.Errorf("Err = %v, want ErrUpstreamUnavailable", result.Err)
	}
	if result.Details["upstream"] != "open" {
		t.Errorf("upstream detail = %v, want open", result.Details["upstream"])
	}
}

func TestRegisterInstanceCheckers(t *testing.T) {
	mgr := testManager(t, "https://acme.kanbanize.com/api/v2", map[string]string{"PROD_TOKEN": "tok"})
	factory := testFactory(t, mgr)

	agg := NewAggregator()
	if err := RegisterInstanceCheckers(agg, mgr, factory); err != nil {
		t.Fatalf("RegisterInstanceCheckers() error = %v", err)
	}

	want := []string{"config", "instance:prod", "instance:staging"}
	got := agg.CheckerNames()
	if len(got) != len(want) {
		t.Fatalf("CheckerNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CheckerNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
