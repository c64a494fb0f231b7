// Package backend runs the local model process that turns a natural-language
// request into text. The process boundary is a child `ollama run`; both
// calls are bounded by the caller's context and a single failed or timed-out
// attempt is terminal.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/ports"
)

const (
	ollamaBinary = "ollama"

	generatePrompt = "Reply with only a single shell command and nothing else. No explanation, no markdown. Task: %s"
	explainPrompt  = "Explain briefly, in a few short lines, what this shell command does: %s"
)

// Ollama invokes the ollama CLI as a child process.
type Ollama struct {
	model     string
	log       ports.Logger
	serveOnce sync.Once
}

// NewOllama builds the backend for the configured model.
func NewOllama(model string, log ports.Logger) *Ollama {
	return &Ollama{model: model, log: log}
}

// Name implements ports.ModelBackend.
func (o *Ollama) Name() string {
	return ollamaBinary
}

// Generate asks the model for a single shell command.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	o.ensureServing()
	return o.run(ctx, fmt.Sprintf(generatePrompt, prompt))
}

// Explain asks the model for a short explanation of a command. The caller
// bounds this with the (shorter) explanation timeout.
func (o *Ollama) Explain(ctx context.Context, command string) (string, error) {
	return o.run(ctx, fmt.Sprintf(explainPrompt, command))
}

// run executes one bounded `ollama run` invocation, capturing stdout and
// stderr into separate buffers. Exceeding the context deadline kills the
// child and maps to ErrModelTimeout; a non-zero exit maps to ErrModelProcess
// carrying the first stderr line.
func (o *Ollama) run(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, ollamaBinary, "run", o.model)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", domain.ErrModelTimeout
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrModelProcess, firstLine(stderr.String(), err.Error()))
	}
	return stdout.String(), nil
}

// ensureServing spawns the long-lived backend daemon as a detached side
// task. Best effort only: if the daemon is already running the spawn exits
// on its own, and generation proceeds regardless.
func (o *Ollama) ensureServing() {
	o.serveOnce.Do(func() {
		cmd := exec.Command(ollamaBinary, "serve")
		if err := cmd.Start(); err != nil {
			o.log.Debug("backend daemon spawn failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		_ = cmd.Process.Release()
	})
}

func firstLine(s, fallback string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

var _ ports.ModelBackend = (*Ollama)(nil)
