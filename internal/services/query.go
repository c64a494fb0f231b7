package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/ports"
)

// QueryService orchestrates one pipeline run end-to-end: invoke the model
// backend (with progress feedback), extract a candidate command, classify
// it, pass the confirmation gate, dispatch the chosen action, and append the
// outcome to the history ledger. The stages run strictly sequentially; only
// the backend call and the progress indicator are concurrent.
type QueryService struct {
	Config    domain.Config
	Backend   ports.ModelBackend
	Security  ports.SecurityService
	Ledger    ports.HistoryLedger
	Index     ports.HistoryIndex
	Executor  ports.CommandExecutor
	Clipboard ports.Clipboard
	Console   ports.Console
	Indicator ports.ProgressIndicator
	Logger    ports.Logger
}

// Run processes a single natural-language query.
func (s *QueryService) Run(req domain.QueryRequest) (domain.QueryResponse, error) {
	var resp domain.QueryResponse
	if s.Backend == nil || s.Security == nil || s.Ledger == nil ||
		s.Executor == nil || s.Console == nil || s.Logger == nil {
		return resp, errors.New("services.QueryService dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return resp, domain.ErrQueryEmpty
	}

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return resp, err
	}

	command := domain.ExtractCommand(raw)
	if command == "" {
		return resp, domain.ErrExtractionEmpty
	}
	resp.Command = command

	verdict := s.Security.Classify(command)
	resp.Verdict = verdict

	s.Console.ShowCommand(command)

	if !verdict.Safe() {
		approved, err := s.Console.ConfirmDangerous(command, verdict)
		if err != nil {
			return resp, err
		}
		if !approved {
			resp.Status = domain.StatusBlocked
			s.record(prompt, command, domain.StatusBlocked)
			return resp, domain.ErrDangerDeclined
		}
	}

	action, err := s.Console.SelectAction()
	if err != nil {
		return resp, err
	}
	resp.Action = action

	return s.dispatch(ctx, prompt, command, action, resp)
}

// generate runs the bounded backend call with the spinner joined to it.
func (s *QueryService) generate(ctx context.Context, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.Config.Timeouts.Generate())
	defer cancel()

	if s.Indicator != nil {
		s.Indicator.Start()
		defer s.Indicator.Stop()
	}
	return s.Backend.Generate(genCtx, prompt)
}

func (s *QueryService) dispatch(ctx context.Context, prompt, command string, action domain.ActionKind, resp domain.QueryResponse) (domain.QueryResponse, error) {
	switch action {
	case domain.ActionRun:
		resp.Status = domain.StatusExecuted
		code, err := s.Executor.Run(ctx, command)
		s.record(prompt, command, domain.StatusExecuted)
		if err != nil {
			return resp, err
		}
		if code != 0 {
			return resp, &domain.ExitError{Code: code}
		}
		return resp, nil

	case domain.ActionExplain:
		resp.Status = domain.StatusExplained
		s.explain(ctx, command)
		s.record(prompt, command, domain.StatusExplained)
		return resp, nil

	case domain.ActionCopy:
		resp.Status = domain.StatusCopied
		viaClipboard := false
		if s.Clipboard != nil && s.Clipboard.Enabled() {
			if err := s.Clipboard.Copy(command); err == nil {
				viaClipboard = true
			} else {
				s.Logger.Warn("clipboard copy failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
		s.Console.ShowCopied(command, viaClipboard)
		s.record(prompt, command, domain.StatusCopied)
		return resp, nil

	case domain.ActionShowHistory:
		entries, err := s.Ledger.Tail(domain.DefaultHistoryTail)
		if err != nil {
			return resp, err
		}
		s.Console.ShowHistory(entries)
		return resp, nil

	default:
		resp.Status = domain.StatusCancelled
		s.record(prompt, command, domain.StatusCancelled)
		return resp, nil
	}
}

// explain issues the second, shorter-bounded backend request. A failure here
// is reported inline and does not abort the run.
func (s *QueryService) explain(ctx context.Context, command string) {
	exCtx, cancel := context.WithTimeout(ctx, s.Config.Timeouts.Explain())
	defer cancel()

	text, err := s.Backend.Explain(exCtx, command)
	if err != nil {
		s.Console.ShowExplanation("Explanation unavailable: " + err.Error())
		return
	}
	s.Console.ShowExplanation(text)
}

// record appends the outcome to the ledger and mirrors it into the search
// index. History write failures never fail the user-visible action.
func (s *QueryService) record(query, command string, status domain.Status) {
	entry := domain.HistoryEntry{
		Timestamp: time.Now(),
		Status:    status,
		Query:     query,
		Command:   command,
	}
	if err := s.Ledger.Append(entry); err != nil {
		s.Logger.Warn("history write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if s.Index != nil {
		if err := s.Index.Insert(entry); err != nil {
			s.Logger.Debug("history index insert failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

var _ domain.QueryService = (*QueryService)(nil)
