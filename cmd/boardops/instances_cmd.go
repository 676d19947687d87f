package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// InstanceDisplay holds instance info for display
type InstanceDisplay struct {
	Name        string   `json:"name"`
	APIURL      string   `json:"apiUrl"`
	ReadOnly    bool     `json:"readOnly"`
	Default     bool     `json:"default"`
	WorkspaceID int64    `json:"workspaceId,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func newInstancesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List configured Businessmap instances",
		Args:  cobra.NoArgs,
		Long: `List the instances the current configuration defines.

The default instance is marked with an asterisk. Tokens are never
shown; only the environment variable each instance reads its token
from is configured, and that stays in the config document.`,
		Example: `  boardops instances           # List instances
  boardops instances --json    # Output as JSON
  boardops -c team.json instances`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := loadManager(true)
			if err != nil {
				return err
			}

			instances, err := mgr.Instances()
			if err != nil {
				return err
			}
			defaultName, err := mgr.DefaultInstanceName()
			if err != nil {
				return err
			}
			origin, err := mgr.Origin()
			if err != nil {
				return err
			}

			display := make([]InstanceDisplay, 0, len(instances))
			for _, inst := range instances {
				display = append(display, InstanceDisplay{
					Name:        inst.Name,
					APIURL:      inst.APIURL,
					ReadOnly:    inst.ReadOnlyMode,
					Default:     inst.Name == defaultName,
					WorkspaceID: inst.DefaultWorkspaceID,
					Description: inst.Description,
					Tags:        inst.Tags,
				})
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(display)
			}

			fmt.Printf("Configuration: %s\n\n", origin)
			for _, d := range display {
				marker := " "
				if d.Default {
					marker = "*"
				}
				mode := ""
				if d.ReadOnly {
					mode = " (read-only)"
				}
				fmt.Printf("%s %-16s %s%s\n", marker, d.Name, d.APIURL, mode)
				if d.Description != "" {
					fmt.Printf("  %s\n", d.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
