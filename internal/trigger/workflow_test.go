package trigger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vertigojc/p4d-swarm-extension/internal/config"
	"github.com/vertigojc/p4d-swarm-extension/internal/event"
	"github.com/vertigojc/p4d-swarm-extension/internal/swarm"
)

type stubChecker struct {
	verdict  swarm.Verdict
	err      error
	calls    int
	lastType swarm.CheckType
}

func (s *stubChecker) Check(ctx context.Context, typ swarm.CheckType, change, user string) (swarm.Verdict, error) {
	s.calls++
	s.lastType = typ
	return s.verdict, s.err
}

type stubExceptions struct {
	exempt bool
	err    error
}

func (s *stubExceptions) IsException(ctx context.Context, change string) (bool, error) {
	return s.exempt, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWorkflow(cfg config.Snapshot, checks *stubChecker, exc *stubExceptions) *Workflow {
	return &Workflow{Config: cfg, Checks: checks, Exceptions: exc, Log: testLogger()}
}

func valid(v bool) swarm.Verdict { return swarm.Verdict{Valid: v} }

func TestWorkflow_PreCheck(t *testing.T) {
	ev := event.NewChange("42", "alice", "ws")

	tests := []struct {
		name        string
		cfg         config.Snapshot
		checker     *stubChecker
		exceptions  *stubExceptions
		wantAccept  bool
		wantMessage string
		wantCalls   int
	}{
		{
			name:       "workflow disabled accepts without remote call",
			cfg:        config.Snapshot{Workflow: false},
			checker:    &stubChecker{},
			exceptions: &stubExceptions{},
			wantAccept: true,
			wantCalls:  0,
		},
		{
			name:       "exception tag bypasses the remote check",
			cfg:        config.Snapshot{Workflow: true},
			checker:    &stubChecker{},
			exceptions: &stubExceptions{exempt: true},
			wantAccept: true,
			wantCalls:  0,
		},
		{
			name:       "valid verdict accepts",
			cfg:        config.Snapshot{Workflow: true},
			checker:    &stubChecker{verdict: valid(true)},
			exceptions: &stubExceptions{},
			wantAccept: true,
			wantCalls:  1,
		},
		{
			name:        "invalid verdict rejects with joined messages",
			cfg:         config.Snapshot{Workflow: true},
			checker:     &stubChecker{verdict: swarm.Verdict{Messages: []string{"a", "b"}}},
			exceptions:  &stubExceptions{},
			wantMessage: "a; b",
			wantCalls:   1,
		},
		{
			// Transport failure fails closed.
			name:        "unreachable service rejects",
			cfg:         config.Snapshot{Workflow: true},
			checker:     &stubChecker{err: swarm.ErrUnreachable},
			exceptions:  &stubExceptions{},
			wantMessage: adminContactMessage,
			wantCalls:   1,
		},
		{
			// A failed description fetch proceeds to validation.
			name:       "exception fetch error still validates",
			cfg:        config.Snapshot{Workflow: true},
			checker:    &stubChecker{verdict: valid(true)},
			exceptions: &stubExceptions{err: errors.New("p4 down")},
			wantAccept: true,
			wantCalls:  1,
		},
		{
			name:       "ignored user accepts without any call",
			cfg:        config.Snapshot{Workflow: true, IgnoredUsers: []string{"alice"}},
			checker:    &stubChecker{},
			exceptions: &stubExceptions{},
			wantAccept: true,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkflow(tt.cfg, tt.checker, tt.exceptions)
			d := w.PreCheck(context.Background(), ev)
			if d.Accept != tt.wantAccept {
				t.Errorf("Accept = %v, want %v", d.Accept, tt.wantAccept)
			}
			if d.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", d.Message, tt.wantMessage)
			}
			if tt.checker.calls != tt.wantCalls {
				t.Errorf("remote calls = %d, want %d", tt.checker.calls, tt.wantCalls)
			}
			if tt.wantCalls > 0 && tt.checker.lastType != swarm.CheckEnforced {
				t.Errorf("check type = %s, want enforced", tt.checker.lastType)
			}
		})
	}
}

func TestWorkflow_PostCheck_RequiresBothToggles(t *testing.T) {
	ev := event.NewChange("42", "alice", "ws")

	tests := []struct {
		name      string
		workflow  bool
		strict    bool
		wantCalls int
	}{
		{"both enabled", true, true, 1},
		{"strict only", false, true, 0},
		{"workflow only", true, false, 0},
		{"neither", false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &stubChecker{verdict: valid(true)}
			w := newWorkflow(config.Snapshot{Workflow: tt.workflow, Strict: tt.strict}, checker, &stubExceptions{})
			d := w.PostCheck(context.Background(), ev)
			if !d.Accept {
				t.Errorf("Accept = false, want true")
			}
			if checker.calls != tt.wantCalls {
				t.Errorf("remote calls = %d, want %d", checker.calls, tt.wantCalls)
			}
			if tt.wantCalls > 0 && checker.lastType != swarm.CheckStrict {
				t.Errorf("check type = %s, want strict", checker.lastType)
			}
		})
	}
}

func TestWorkflow_ShelveCheck(t *testing.T) {
	ev := event.NewChange("42", "alice", "ws")

	// Runs even with workflow and strict disabled.
	checker := &stubChecker{verdict: swarm.Verdict{Messages: []string{"shelve blocked"}}}
	w := newWorkflow(config.Snapshot{}, checker, &stubExceptions{})
	d := w.ShelveCheck(context.Background(), ev)
	if d.Accept {
		t.Error("Accept = true, want reject")
	}
	if d.Message != "shelve blocked" {
		t.Errorf("Message = %q", d.Message)
	}
	if checker.lastType != swarm.CheckShelve {
		t.Errorf("check type = %s, want shelve", checker.lastType)
	}

	// Exception tags still bypass it.
	checker = &stubChecker{}
	w = newWorkflow(config.Snapshot{}, checker, &stubExceptions{exempt: true})
	if d := w.ShelveCheck(context.Background(), ev); !d.Accept {
		t.Error("Accept = false with exception tag, want true")
	}
	if checker.calls != 0 {
		t.Errorf("remote calls = %d, want 0", checker.calls)
	}
}

func TestWorkflow_PreCheck_FailClosedOnProtocolError(t *testing.T) {
	ev := event.NewChange("42", "alice", "ws")
	checker := &stubChecker{err: swarm.ErrUnexpectedFormat}
	w := newWorkflow(config.Snapshot{Workflow: true}, checker, &stubExceptions{})
	d := w.PreCheck(context.Background(), ev)
	if d.Accept {
		t.Error("Accept = true, want reject on parse failure")
	}
	if d.Message != adminContactMessage {
		t.Errorf("Message = %q, want administrator-contact message", d.Message)
	}
}
