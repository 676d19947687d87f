package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/boardops/instance"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect instance configuration",
		Long: `Inspect the instance configuration boardops would use.

Configuration is resolved from, in order: an explicit --config path,
the ` + instance.EnvConfig + ` environment variable, the default config
file locations, and finally the legacy ` + instance.EnvAPIURL + `/` +
			instance.EnvAPIToken + ` pair.`,
		Example: `  boardops config validate           # Check the effective config
  boardops config validate --tokens  # Also check token variables
  boardops config paths              # Show default search locations`,
	}

	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigPathsCmd())

	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var checkTokens bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		Long: `Validate the configuration document boardops would load.

Reports every violation, not just the first. With --tokens it also
resolves each instance's token variable and reports the ones that are
unset or blank; token values themselves are never printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := loadManager(true)
			if err != nil {
				var verr *instance.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprintln(os.Stderr, "Configuration is invalid:")
					for _, v := range verr.Violations {
						fmt.Fprintf(os.Stderr, "  - %s\n", v)
					}
					return fmt.Errorf("%d validation error(s)", len(verr.Violations))
				}
				return err
			}

			origin, err := mgr.Origin()
			if err != nil {
				return err
			}
			instances, err := mgr.Instances()
			if err != nil {
				return err
			}
			legacy, err := mgr.LegacyMode()
			if err != nil {
				return err
			}

			fmt.Printf("Configuration OK: %s (%d instance(s))\n", origin, len(instances))
			if legacy {
				fmt.Println("Running in legacy single-instance mode; consider a config document.")
			}

			if !checkTokens {
				return nil
			}

			missing := 0
			fmt.Println("\nTokens:")
			for _, inst := range instances {
				if _, err := mgr.Resolve(inst.Name); err != nil {
					var terr *instance.TokenError
					if errors.As(err, &terr) {
						fmt.Printf("  %-16s %-24s MISSING\n", inst.Name, terr.Slot)
						missing++
						continue
					}
					return err
				}
				fmt.Printf("  %-16s %-24s ok\n", inst.Name, inst.APITokenEnv)
			}
			if missing > 0 {
				return fmt.Errorf("%d token variable(s) missing", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkTokens, "tokens", false, "Also check each instance's token variable is set")

	return cmd
}

func newConfigPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show default config file search locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range instance.DefaultPaths() {
				fmt.Println(p)
			}
			return nil
		},
	}
}
