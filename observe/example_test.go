package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/boardops/observe"
)

func ExampleNewObserver() {
	ctx := context.Background()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "boardops",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer obs.Shutdown(ctx)

	fmt.Println("telemetry ready")
	// Output:
	// telemetry ready
}

func ExampleNewObserver_validation() {
	_, err := observe.NewObserver(context.Background(), observe.Config{})
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("caught: missing service name")
	}
	// Output:
	// caught: missing service name
}

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "boardops",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 0.5},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid:", err)
		return
	}
	fmt.Println("configuration is valid")
	// Output:
	// configuration is valid
}

func ExampleCallMeta_SpanName() {
	fmt.Println(observe.CallMeta{Tool: "create_card", Instance: "prod"}.SpanName())
	fmt.Println(observe.CallMeta{Tool: "list_workspaces"}.SpanName())
	// Output:
	// board.tool.create_card
	// board.tool.list_workspaces
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "server started",
		observe.Field{Key: "version", Value: "1.0.0"},
	)

	fmt.Println(strings.Contains(buf.String(), "server started"))
	// Output:
	// true
}

func ExampleLogger_withCall() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	call := logger.WithCall(observe.CallMeta{Tool: "list_cards", Instance: "staging"})
	call.Info(context.Background(), "tool call started")

	fmt.Println(strings.Contains(buf.String(), "tool.name"))
	fmt.Println(strings.Contains(buf.String(), "staging"))
	// Output:
	// true
	// true
}

func ExampleMiddleware_Wrap() {
	ctx := context.Background()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "boardops",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer obs.Shutdown(ctx)

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	wrapped := mw.Wrap(func(ctx context.Context, meta observe.CallMeta, args any) (any, error) {
		return map[string]string{"status": "success"}, nil
	})

	result, err := wrapped(ctx, observe.CallMeta{Tool: "example_tool", Instance: "prod"}, nil)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Result: %v\n", result)
	// Output:
	// Result: map[status:success]
}

func ExampleParseLogLevel() {
	for _, s := range []string{"debug", "info", "warn", "error", "unknown"} {
		fmt.Printf("%s -> %s\n", s, observe.ParseLogLevel(s))
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> info
}
