package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/askcmd/internal/app"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "view",
			Short: "Print the config file contents",
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(container.ConfigLoader.Path())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)

	return configCmd
}
