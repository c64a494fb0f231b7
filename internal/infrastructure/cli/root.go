package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/askcmd/internal/app"
	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Running the root itself is the
// pipeline: arguments are joined into the query, or the query is prompted
// for interactively when none are given.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	console := NewConsole(nil, nil)
	container.QueryService.Console = console
	container.QueryService.Clipboard = NewClipboard()
	container.QueryService.Indicator = NewSpinner(os.Stderr)

	root := &cobra.Command{
		Use:   "ask [query]",
		Short: "ask - natural language to shell command",
		Long:  "ask turns a natural-language request into a single shell command,\nscreens it against danger rules, and requires confirmation before any action.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				var err error
				prompt, err = console.ReadQuery()
				if err != nil {
					return err
				}
			}
			_, err := container.QueryService.Run(domain.QueryRequest{
				Context: cmd.Context(),
				Prompt:  prompt,
			})
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewRulesCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}
