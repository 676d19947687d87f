package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/boardops/businessmap"
	"github.com/jonwraymond/boardops/health"
	"github.com/jonwraymond/boardops/observe"
	"github.com/jonwraymond/boardops/tool"
)

const serveInstructions = `Tools for reading and updating Businessmap (Kanbanize) boards.
Read tools list workspaces, boards, columns, lanes, cards, and comments;
write tools create, update, move, and delete cards. Every tool accepts an
optional "instance" argument naming which configured Businessmap instance
to talk to; omit it to use the default.`

func newServeCmd() *cobra.Command {
	var (
		httpAddr        string
		defaultInstance string
		telemetry       bool
		traceExporter   string
		metricsExporter string
		samplePct       float64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools over stdio or streamable HTTP",
		Args:  cobra.NoArgs,
		Long: `Serve the Businessmap MCP tools.

By default the server speaks MCP over stdin/stdout, which is what MCP
clients spawning boardops as a subprocess expect. With --http it serves
streamable HTTP instead: MCP at /mcp, plus /healthz, /readyz, and
/health probes reporting configuration and per-instance upstream state.

Telemetry is off unless --telemetry is set. In stdio mode stdout belongs
to the protocol, so stdout exporters are rejected there.`,
		Example: `  boardops serve                          # stdio, for MCP clients
  boardops serve --http :8080             # streamable HTTP
  boardops serve --instance staging       # route calls to "staging" by default
  boardops serve --telemetry --http :8080 # with OTLP tracing and metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// A stdout exporter would interleave telemetry with the
			// protocol stream.
			if httpAddr == "" && telemetry && (traceExporter == "stdout" || metricsExporter == "stdout") {
				return fmt.Errorf("stdout exporters conflict with the stdio transport; use --http or another exporter")
			}

			mgr, err := loadManager(true)
			if err != nil {
				return err
			}

			mw := observe.NoopMiddleware()
			metrics := observe.NoopMetrics()
			logger := observe.NewLogger(logLevel)
			if telemetry {
				obs, err := observe.NewObserver(ctx, observe.Config{
					ServiceName: "boardops",
					Version:     version,
					Tracing: observe.TracingConfig{
						Enabled:   traceExporter != "none",
						Exporter:  traceExporter,
						SamplePct: samplePct,
					},
					Metrics: observe.MetricsConfig{
						Enabled:  metricsExporter != "none",
						Exporter: metricsExporter,
					},
					Logging: observe.LoggingConfig{Enabled: true, Level: logLevel},
				})
				if err != nil {
					return fmt.Errorf("init telemetry: %w", err)
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = obs.Shutdown(shutdownCtx)
				}()

				if mw, err = observe.MiddlewareFromObserver(obs); err != nil {
					return fmt.Errorf("init telemetry: %w", err)
				}
				if metrics, err = observe.NewMetrics(obs); err != nil {
					return fmt.Errorf("init telemetry: %w", err)
				}
				logger = obs.Logger()
			}

			factory, err := businessmap.NewFactory(businessmap.FactoryConfig{
				Instances: mgr,
				Metrics:   metrics,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			defer func() { _ = factory.Close() }()

			srv, err := tool.NewServer(tool.Config{
				Factory:         factory,
				Middleware:      mw,
				Name:            "boardops",
				Version:         version,
				DefaultInstance: defaultInstance,
				Instructions:    serveInstructions,
			})
			if err != nil {
				return err
			}

			if httpAddr != "" {
				agg := health.NewAggregator()
				if err := health.RegisterInstanceCheckers(agg, mgr, factory); err != nil {
					return err
				}

				mux := http.NewServeMux()
				mux.Handle("/mcp", srv.StreamableHandler())
				health.RegisterHandlers(mux, agg)

				logger.Info(ctx, "serving MCP over streamable HTTP",
					observe.Field{Key: "addr", Value: httpAddr},
				)
				return serveHTTP(ctx, httpAddr, mux)
			}
			return srv.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio (e.g. :8080)")
	cmd.Flags().StringVar(&defaultInstance, "instance", "", "Instance used when a tool call names none (default: config default)")
	cmd.Flags().BoolVar(&telemetry, "telemetry", false, "Enable OpenTelemetry tracing and metrics")
	cmd.Flags().StringVar(&traceExporter, "trace-exporter", "otlp", "Trace exporter: otlp, jaeger, stdout, none")
	cmd.Flags().StringVar(&metricsExporter, "metrics-exporter", "otlp", "Metrics exporter: otlp, prometheus, stdout, none")
	cmd.Flags().Float64Var(&samplePct, "sample-pct", 1.0, "Trace sampling fraction, 0.0-1.0")

	return cmd
}

// serveHTTP runs an HTTP server until ctx is canceled, then drains
// in-flight requests.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
