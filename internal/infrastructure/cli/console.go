package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/ports"
)

// Console implements ports.Console on stdio: the interactive query prompt,
// the danger confirmation gate, the single-keystroke action menu, and result
// rendering.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole constructs a console referencing stdio by default.
func NewConsole(in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReadQuery prompts for the natural-language request when no CLI arguments
// were given.
func (c *Console) ReadQuery() (string, error) {
	fmt.Fprint(c.out, "What do you want to do? ")
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ShowCommand displays the generated command before any action is taken.
func (c *Console) ShowCommand(command string) {
	fmt.Fprintf(c.out, "\nGenerated command:\n  %s\n", indentContinuation(command))
}

// ConfirmDangerous shows the matched rules and requires a typed affirmative.
// Any other response, including empty, declines.
func (c *Console) ConfirmDangerous(command string, verdict domain.Verdict) (bool, error) {
	fmt.Fprintf(c.out, "\n⚠️  This command matched %d danger rule(s):\n", len(verdict.MatchedRules))
	for i, id := range verdict.MatchedRules {
		reason := ""
		if i < len(verdict.Reasons) {
			reason = " - " + verdict.Reasons[i]
		}
		fmt.Fprintf(c.out, "  [%s]%s\n", id, reason)
	}
	fmt.Fprint(c.out, "Type 'yes' to proceed anyway (anything else cancels): ")
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// SelectAction renders the menu and maps the first typed letter to an
// action. Unrecognized input cancels.
func (c *Console) SelectAction() (domain.ActionKind, error) {
	fmt.Fprint(c.out, "\n[y] run  [e] explain  [c] copy  [h] history  [n] cancel\n> ")
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return domain.ActionCancel, err
	}
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if trimmed == "" {
		return domain.ActionCancel, nil
	}
	return domain.ParseActionKey(rune(trimmed[0])), nil
}

// ShowExplanation prints the model's explanation, capped at a few lines.
func (c *Console) ShowExplanation(text string) {
	fmt.Fprintln(c.out)
	count := 0
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fmt.Fprintln(c.out, line)
		count++
		if count == domain.MaxExplanationLines {
			break
		}
	}
}

// ShowHistory renders ledger entries oldest first.
func (c *Console) ShowHistory(entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No history recorded yet.")
		return
	}
	fmt.Fprintln(c.out)
	for _, entry := range entries {
		fmt.Fprintf(c.out, "%s  %-9s  %s\n    %s\n",
			entry.Timestamp.Format(domain.HistoryTimestampFormat),
			entry.Status, entry.Query, entry.Command)
	}
}

// ShowCopied reports the copy outcome; when the clipboard capability is
// unavailable the command itself is printed as the fallback.
func (c *Console) ShowCopied(command string, viaClipboard bool) {
	if viaClipboard {
		fmt.Fprintln(c.out, "Command copied to clipboard.")
		return
	}
	fmt.Fprintf(c.out, "Clipboard unavailable; command was:\n  %s\n", indentContinuation(command))
}

// indentContinuation keeps multi-line commands aligned under the two-space
// indent used by ShowCommand.
func indentContinuation(command string) string {
	return strings.ReplaceAll(command, "\n", "\n  ")
}

var _ ports.Console = (*Console)(nil)
