package cli

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/doeshing/askcmd/internal/ports"
)

// Clipboard copies text via the platform's clipboard tool. The capability is
// external: when no tool is found the caller falls back to printing the
// command instead.
type Clipboard struct{}

// NewClipboard builds the clipboard helper.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Enabled reports whether a clipboard tool is available.
func (c *Clipboard) Enabled() bool {
	_, err := c.tool()
	return err == nil
}

// Copy pipes text into the clipboard tool.
func (c *Clipboard) Copy(text string) error {
	cmd, err := c.tool()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func (c *Clipboard) tool() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "windows":
		if _, err := exec.LookPath("clip"); err == nil {
			return exec.Command("clip"), nil
		}
	default:
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := exec.LookPath("wl-copy"); err == nil {
			return exec.Command("wl-copy"), nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
	}
	return nil, fmt.Errorf("no clipboard utility found on %s", runtime.GOOS)
}

var _ ports.Clipboard = (*Clipboard)(nil)
