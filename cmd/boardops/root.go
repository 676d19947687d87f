package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/boardops/instance"
)

var (
	// Global flags
	configPath string
	envFile    string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boardops",
	Short: "MCP server for Businessmap (Kanbanize) boards",
	Long: `boardops exposes Businessmap workspaces, boards, and cards as MCP
tools over stdio or streamable HTTP.

Instances are configured through a JSON document (BOARDOPS_CONFIG, a
config file, or the legacy BOARDOPS_API_URL/BOARDOPS_API_TOKEN pair);
API tokens are read from the environment variables the document names.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// An explicitly named env file must exist; the implicit .env is
		// best effort.
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		}
		_ = godotenv.Load()
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to instance config file (overrides default search)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load before anything else (default: .env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newInstancesCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// loadManager loads the instance configuration honoring the global
// --config flag. Commands that cannot run unconfigured pass strict.
func loadManager(strict bool) (*instance.Manager, error) {
	mgr := instance.NewManager(nil)
	err := mgr.Load(instance.LoadOptions{
		Path:        configPath,
		AllowLegacy: true,
		Strict:      strict,
	})
	if err != nil {
		return nil, err
	}
	return mgr, nil
}
