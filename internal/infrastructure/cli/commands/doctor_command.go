package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/askcmd/internal/app"
	"github.com/doeshing/askcmd/internal/domain"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService().Run(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := false
			for _, check := range report.Checks {
				fmt.Fprintf(out, "[%-4s] %-14s %s\n", check.Status, check.Name, check.Details)
				if check.Status == domain.HealthFail {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}
