package trigger

import (
	"context"
	"log/slog"

	"github.com/vertigojc/p4d-swarm-extension/internal/config"
	"github.com/vertigojc/p4d-swarm-extension/internal/event"
	"github.com/vertigojc/p4d-swarm-extension/internal/swarm"
)

// adminContactMessage is surfaced when Swarm cannot be consulted during
// a validation check. Checks fail closed: review enforcement is
// load-bearing, so an unreachable service rejects the event.
const adminContactMessage = "Error communicating with Swarm. Please contact your administrator."

// Decision is the outcome of one gate check; Message accompanies a
// rejection and is relayed to the submitting client.
type Decision struct {
	Accept  bool
	Message string
}

func accept() Decision {
	return Decision{Accept: true}
}

func reject(msg string) Decision {
	return Decision{Message: msg}
}

// CheckService runs remote changelist validations.
type CheckService interface {
	Check(ctx context.Context, typ swarm.CheckType, change, user string) (swarm.Verdict, error)
}

// ExceptionService tests a changelist for exception tags.
type ExceptionService interface {
	IsException(ctx context.Context, change string) (bool, error)
}

// Workflow gates submit-time events on Swarm's verdicts. Each check
// re-reads configuration and re-evaluates the exception matcher; no
// state persists between checks beyond the changelist id itself.
type Workflow struct {
	Config     config.Snapshot
	Checks     CheckService
	Exceptions ExceptionService
	Log        *slog.Logger
}

// PreCheck gates change-submit, before file transfer. Disabled
// workflow enforcement or an exception tag accepts immediately.
func (w *Workflow) PreCheck(ctx context.Context, ev event.Change) Decision {
	if w.Config.UserIgnored(ev.User) {
		return accept()
	}
	if !w.Config.Workflow {
		return accept()
	}
	if w.exempt(ctx, ev) {
		return accept()
	}
	return w.check(ctx, swarm.CheckEnforced, ev)
}

// PostCheck gates change-content, after file transfer. It runs only
// when both workflow and strict enforcement are enabled.
func (w *Workflow) PostCheck(ctx context.Context, ev event.Change) Decision {
	if w.Config.UserIgnored(ev.User) {
		return accept()
	}
	if !w.Config.Workflow || !w.Config.Strict {
		return accept()
	}
	if w.exempt(ctx, ev) {
		return accept()
	}
	return w.check(ctx, swarm.CheckStrict, ev)
}

// ShelveCheck gates shelve-submit. It ignores the workflow and strict
// toggles but still honors exception tags.
func (w *Workflow) ShelveCheck(ctx context.Context, ev event.Change) Decision {
	if w.Config.UserIgnored(ev.User) {
		return accept()
	}
	if w.exempt(ctx, ev) {
		return accept()
	}
	return w.check(ctx, swarm.CheckShelve, ev)
}

// exempt runs the exception matcher. A failed description fetch counts
// as not exempt: the remote check still runs and itself fails closed.
func (w *Workflow) exempt(ctx context.Context, ev event.Change) bool {
	ok, err := w.Exceptions.IsException(ctx, ev.ID)
	if err != nil {
		w.Log.Warn("description fetch failed, proceeding to validation",
			slog.String("change", ev.ID),
			slog.String("trace_id", ev.TraceID),
			slog.String("error", err.Error()))
		return false
	}
	return ok
}

func (w *Workflow) check(ctx context.Context, typ swarm.CheckType, ev event.Change) Decision {
	v, err := w.Checks.Check(ctx, typ, ev.ID, ev.User)
	if err != nil {
		w.Log.Error("swarm check failed",
			slog.String("type", string(typ)),
			slog.String("change", ev.ID),
			slog.String("user", ev.User),
			slog.String("trace_id", ev.TraceID),
			slog.String("error", err.Error()))
		return reject(adminContactMessage)
	}
	if v.Valid {
		return accept()
	}
	return reject(v.Message())
}
