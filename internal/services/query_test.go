package services

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/pkg/logger"
)

func newTestService(backend *stubBackend, console *stubConsole, ledger *stubLedger, executor *stubExecutor) *QueryService {
	return &QueryService{
		Config: domain.Config{
			Timeouts: domain.TimeoutSettings{GenerateSeconds: 5, ExplainSeconds: 2},
		},
		Backend:  backend,
		Security: realClassifier{},
		Ledger:   ledger,
		Executor: executor,
		Console:  console,
		Logger:   logger.NewStd(false),
	}
}

func TestRunSafeCommandSkipsDangerGate(t *testing.T) {
	backend := &stubBackend{output: "```bash\necho hi\n```"}
	console := &stubConsole{action: domain.ActionCancel}
	ledger := &stubLedger{}
	executor := &stubExecutor{}

	svc := newTestService(backend, console, ledger, executor)
	resp, err := svc.Run(domain.QueryRequest{Prompt: "say hi"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if resp.Command != "echo hi" {
		t.Fatalf("command = %q", resp.Command)
	}
	if !resp.Verdict.Safe() {
		t.Fatalf("expected safe verdict, got %v", resp.Verdict.MatchedRules)
	}
	if console.confirmCalls != 0 {
		t.Fatal("danger gate shown for a safe command")
	}
	if console.menuCalls != 1 {
		t.Fatal("action menu not shown")
	}
}

func TestRunDeclinedDangerousCommandBlocks(t *testing.T) {
	backend := &stubBackend{output: "rm -rf /tmp/x"}
	console := &stubConsole{confirm: false}
	ledger := &stubLedger{}
	executor := &stubExecutor{}

	svc := newTestService(backend, console, ledger, executor)
	resp, err := svc.Run(domain.QueryRequest{Prompt: "delete temp"})
	if !errors.Is(err, domain.ErrDangerDeclined) {
		t.Fatalf("expected ErrDangerDeclined, got %v", err)
	}
	if resp.Status != domain.StatusBlocked {
		t.Fatalf("status = %s, want blocked", resp.Status)
	}
	if executor.called {
		t.Fatal("executor invoked after decline")
	}
	if console.menuCalls != 0 {
		t.Fatal("action menu shown after decline")
	}
	if len(ledger.entries) != 1 || ledger.entries[0].Status != domain.StatusBlocked {
		t.Fatalf("expected one blocked entry, got %+v", ledger.entries)
	}
}

func TestRunApprovedDangerousCommandExecutes(t *testing.T) {
	backend := &stubBackend{output: "rm -rf /tmp/x"}
	console := &stubConsole{confirm: true, action: domain.ActionRun}
	ledger := &stubLedger{}
	executor := &stubExecutor{}

	svc := newTestService(backend, console, ledger, executor)
	if _, err := svc.Run(domain.QueryRequest{Prompt: "delete temp"}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !executor.called {
		t.Fatal("executor not invoked after approval")
	}
	if len(ledger.entries) != 1 || ledger.entries[0].Status != domain.StatusExecuted {
		t.Fatalf("expected one executed entry, got %+v", ledger.entries)
	}
}

func TestRunEmptyQuery(t *testing.T) {
	svc := newTestService(&stubBackend{}, &stubConsole{}, &stubLedger{}, &stubExecutor{})
	if _, err := svc.Run(domain.QueryRequest{Prompt: "   "}); !errors.Is(err, domain.ErrQueryEmpty) {
		t.Fatalf("expected ErrQueryEmpty, got %v", err)
	}
}

func TestRunModelTimeoutWritesNoHistory(t *testing.T) {
	backend := &stubBackend{err: domain.ErrModelTimeout}
	ledger := &stubLedger{}

	svc := newTestService(backend, &stubConsole{}, ledger, &stubExecutor{})
	if _, err := svc.Run(domain.QueryRequest{Prompt: "anything"}); !errors.Is(err, domain.ErrModelTimeout) {
		t.Fatalf("expected ErrModelTimeout, got %v", err)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("history written on timeout: %+v", ledger.entries)
	}
}

func TestRunEmptyExtractionFails(t *testing.T) {
	backend := &stubBackend{output: "```\n```\n"}
	ledger := &stubLedger{}

	svc := newTestService(backend, &stubConsole{}, ledger, &stubExecutor{})
	if _, err := svc.Run(domain.QueryRequest{Prompt: "anything"}); !errors.Is(err, domain.ErrExtractionEmpty) {
		t.Fatalf("expected ErrExtractionEmpty, got %v", err)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("history written on empty extraction: %+v", ledger.entries)
	}
}

func TestRunSurfacesCommandExitCode(t *testing.T) {
	backend := &stubBackend{output: "false"}
	console := &stubConsole{action: domain.ActionRun}
	executor := &stubExecutor{exitCode: 7}

	svc := newTestService(backend, console, &stubLedger{}, executor)
	_, err := svc.Run(domain.QueryRequest{Prompt: "fail"})
	var exitErr *domain.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.ExitCode() != 7 {
		t.Fatalf("exit code = %d, want 7", exitErr.ExitCode())
	}
}

func TestRunCopyFallsBackWithoutClipboard(t *testing.T) {
	backend := &stubBackend{output: "echo hi"}
	console := &stubConsole{action: domain.ActionCopy}
	ledger := &stubLedger{}

	svc := newTestService(backend, console, ledger, &stubExecutor{})
	svc.Clipboard = &stubClipboard{enabled: false}

	if _, err := svc.Run(domain.QueryRequest{Prompt: "say hi"}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if console.copiedVia {
		t.Fatal("reported clipboard copy despite disabled clipboard")
	}
	if len(ledger.entries) != 1 || ledger.entries[0].Status != domain.StatusCopied {
		t.Fatalf("expected one copied entry, got %+v", ledger.entries)
	}
}

func TestRunShowHistoryWritesNoEntry(t *testing.T) {
	backend := &stubBackend{output: "echo hi"}
	console := &stubConsole{action: domain.ActionShowHistory}
	ledger := &stubLedger{tail: []domain.HistoryEntry{{Query: "old", Command: "ls"}}}

	svc := newTestService(backend, console, ledger, &stubExecutor{})
	if _, err := svc.Run(domain.QueryRequest{Prompt: "say hi"}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("ShowHistory must not append: %+v", ledger.entries)
	}
	if len(console.history) != 1 {
		t.Fatalf("history not rendered: %+v", console.history)
	}
}

func TestRunHistoryFailureDoesNotFailAction(t *testing.T) {
	backend := &stubBackend{output: "echo hi"}
	console := &stubConsole{action: domain.ActionCancel}
	ledger := &stubLedger{appendErr: errors.New("disk full")}

	svc := newTestService(backend, console, ledger, &stubExecutor{})
	if _, err := svc.Run(domain.QueryRequest{Prompt: "say hi"}); err != nil {
		t.Fatalf("history failure leaked: %v", err)
	}
}

// --- stubs ---

type stubBackend struct {
	output  string
	explain string
	err     error
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Generate(context.Context, string) (string, error) {
	return s.output, s.err
}

func (s *stubBackend) Explain(context.Context, string) (string, error) {
	return s.explain, s.err
}

// realClassifier applies a minimal inline rule so the gate logic is
// exercised without depending on the security package.
type realClassifier struct{}

func (realClassifier) Classify(command string) domain.Verdict {
	if len(command) >= 6 && command[:6] == "rm -rf" {
		return domain.Verdict{
			MatchedRules: []string{"recursive-force-delete"},
			Reasons:      []string{"Recursive forced delete"},
		}
	}
	return domain.Verdict{}
}

type stubLedger struct {
	entries   []domain.HistoryEntry
	tail      []domain.HistoryEntry
	appendErr error
}

func (s *stubLedger) Append(entry domain.HistoryEntry) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubLedger) Tail(int) ([]domain.HistoryEntry, error) {
	return s.tail, nil
}

type stubExecutor struct {
	called   bool
	exitCode int
}

func (s *stubExecutor) Run(context.Context, string) (int, error) {
	s.called = true
	return s.exitCode, nil
}

type stubClipboard struct {
	enabled bool
	copied  string
}

func (s *stubClipboard) Enabled() bool { return s.enabled }

func (s *stubClipboard) Copy(text string) error {
	s.copied = text
	return nil
}

type stubConsole struct {
	confirm      bool
	action       domain.ActionKind
	confirmCalls int
	menuCalls    int
	copiedVia    bool
	history      [][]domain.HistoryEntry
}

func (s *stubConsole) ReadQuery() (string, error) { return "", nil }

func (s *stubConsole) ShowCommand(string) {}

func (s *stubConsole) ConfirmDangerous(string, domain.Verdict) (bool, error) {
	s.confirmCalls++
	return s.confirm, nil
}

func (s *stubConsole) SelectAction() (domain.ActionKind, error) {
	s.menuCalls++
	return s.action, nil
}

func (s *stubConsole) ShowExplanation(string) {}

func (s *stubConsole) ShowHistory(entries []domain.HistoryEntry) {
	s.history = append(s.history, entries)
}

func (s *stubConsole) ShowCopied(_ string, viaClipboard bool) {
	s.copiedVia = viaClipboard
}
