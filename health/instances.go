package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/boardops/businessmap"
	"github.com/jonwraymond/boardops/instance"
)

// NewConfigChecker reports on the loaded instance configuration.
func NewConfigChecker(mgr *instance.Manager) Checker {
	return NewChecker("config", func(ctx context.Context) Result {
		if !mgr.IsConfigured() {
			return Unhealthy("no instance configuration loaded", instance.ErrNotLoaded)
		}
		instances, err := mgr.Instances()
		if err != nil {
			return Unhealthy("configuration unreadable", err)
		}
		origin, err := mgr.Origin()
		if err != nil {
			return Unhealthy("configuration unreadable", err)
		}
		legacy, err := mgr.LegacyMode()
		if err != nil {
			return Unhealthy("configuration unreadable", err)
		}

		return Healthy(fmt.Sprintf("%d instance(s) configured", len(instances))).WithDetails(map[string]any{
			"origin":    origin,
			"instances": len(instances),
			"legacy":    legacy,
		})
	})
}

// NewInstanceChecker reports one instance's credential and upstream
// circuit state. The client is built on first probe, so a missing token
// or unknown name surfaces here as unhealthy.
func NewInstanceChecker(factory *businessmap.Factory, name string) Checker {
	return NewChecker("instance:"+name, func(ctx context.Context) Result {
		client, err := factory.ClientFor(name)
		if err != nil {
			return Unhealthy("instance unavailable", err)
		}

		state := client.UpstreamState()
		stats := client.CacheStats()
		details := map[string]any{
			"upstream":      state,
			"read_only":     client.ReadOnly(),
			"cache_entries": stats.Entries,
		}

		switch state {
		case "open":
			return Unhealthy("upstream circuit open", businessmap.ErrUpstreamUnavailable).WithDetails(details)
		case "half-open":
			return Degraded("upstream circuit probing").WithDetails(details)
		default:
			return Healthy("upstream circuit closed").WithDetails(details)
		}
	})
}

// RegisterInstanceCheckers registers the config checker plus one
// instance checker per configured instance.
func RegisterInstanceCheckers(agg *Aggregator, mgr *instance.Manager, factory *businessmap.Factory) error {
	agg.Register(NewConfigChecker(mgr))

	instances, err := mgr.Instances()
	if err != nil {
		return err
	}
	for _, inst := range instances {
		agg.Register(NewInstanceChecker(factory, inst.Name))
	}
	return nil
}
