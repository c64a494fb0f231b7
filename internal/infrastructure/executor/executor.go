package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/doeshing/askcmd/internal/ports"
)

// LocalExecutor runs the approved command in a fresh shell subprocess. The
// subprocess inherits the invoking terminal's standard streams and its exit
// code is returned untouched.
type LocalExecutor struct {
	shell string
}

// NewLocalExecutor builds a new executor; the shell defaults to $SHELL and
// then /bin/sh.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell}
}

// Run implements ports.CommandExecutor.
func (e *LocalExecutor) Run(ctx context.Context, command string) (int, error) {
	cmd := exec.CommandContext(ctx, e.shell, "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
