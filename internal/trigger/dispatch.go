package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vertigojc/p4d-swarm-extension/internal/config"
	"github.com/vertigojc/p4d-swarm-extension/internal/event"
	"github.com/vertigojc/p4d-swarm-extension/internal/paths"
	"github.com/vertigojc/p4d-swarm-extension/internal/swarm"
)

// Queue type tags, one per host event.
const (
	TagCommit       = "commit"
	TagShelve       = "shelve"
	TagShelveDelete = "shelvedel"
	TagChangeSave   = "changesave"
	TagUser         = "user"
	TagUserDelete   = "userdel"
	TagGroup        = "group"
	TagGroupDelete  = "groupdel"
	TagJob          = "job"
	TagPing         = "ping"
)

// Missing-setting messages; each absent requirement gets its own.
const (
	msgNoURL   = "Swarm URL is not configured; set url in the trigger configuration."
	msgNoToken = "Swarm token is not configured; set token in the trigger configuration."
)

// QueueService hands items to Swarm's worker queue.
type QueueService interface {
	QueueAdd(ctx context.Context, item swarm.QueueItem) error
}

// Result is the outcome of a dispatch: OK decides whether the host
// operation proceeds, Message is relayed to the user when set.
type Result struct {
	OK      bool
	Message string
}

// Dispatcher enqueues committed changes, shelves, and form mutations.
// Dispatch is fire-and-forget: Swarm's queue owns durability, and a
// failed send is never retried here.
type Dispatcher struct {
	Config config.Snapshot
	Queue  QueueService
	Log    *slog.Logger
}

// Enqueue sends one item, applying the ignore-errors policy: with it
// enabled a failed send logs, warns the user, and still reports
// success so the host operation proceeds.
func (d *Dispatcher) Enqueue(ctx context.Context, item swarm.QueueItem) Result {
	if d.Config.URL == "" {
		return Result{Message: msgNoURL}
	}
	if d.Config.Token == "" {
		return Result{Message: msgNoToken}
	}

	if err := d.Queue.QueueAdd(ctx, item); err != nil {
		d.Log.Error("queue add failed",
			slog.String("type", item.Type),
			slog.String("value", item.Value),
			slog.String("error", err.Error()))
		msg := fmt.Sprintf("Unable to communicate with Swarm: %v", err)
		if d.Config.IgnoreErrors {
			return Result{OK: true, Message: "Warning: " + msg}
		}
		return Result{Message: msg}
	}
	return Result{OK: true}
}

// Commit enqueues a committed changelist.
func (d *Dispatcher) Commit(ctx context.Context, ev event.Change) Result {
	if d.Config.UserIgnored(ev.User) {
		return Result{OK: true}
	}
	return d.Enqueue(ctx, swarm.QueueItem{Type: TagCommit, Value: ev.ID})
}

// Shelve enqueues a shelved changelist.
func (d *Dispatcher) Shelve(ctx context.Context, ev event.Change) Result {
	if d.Config.UserIgnored(ev.User) {
		return Result{OK: true}
	}
	return d.Enqueue(ctx, swarm.QueueItem{Type: TagShelve, Value: ev.ID})
}

// shelveDeletePayload is the JSON body accompanying a shelvedel item.
type shelveDeletePayload struct {
	Client string   `json:"client"`
	Cwd    string   `json:"cwd"`
	Files  []string `json:"files"`
}

// ShelveDelete normalizes the shelved-file paths onto a common root
// and enqueues the deletion with its JSON payload.
func (d *Dispatcher) ShelveDelete(ctx context.Context, ev event.ShelveDelete) Result {
	if d.Config.UserIgnored(ev.User) {
		return Result{OK: true}
	}

	sep := paths.InferSeparator(ev.Root)
	files, root := paths.Normalize(ev.Files, ev.Root, sep)

	body, err := json.Marshal(shelveDeletePayload{
		Client: ev.Client,
		Cwd:    root,
		Files:  files,
	})
	if err != nil {
		return Result{Message: fmt.Sprintf("Unable to encode shelve deletion: %v", err)}
	}
	return d.Enqueue(ctx, swarm.QueueItem{Type: TagShelveDelete, Value: ev.ID, Body: body})
}

// FormCommit enqueues user, group, job, and change-description saves.
func (d *Dispatcher) FormCommit(ctx context.Context, ev event.Form) Result {
	if d.Config.UserIgnored(ev.User) {
		return Result{OK: true}
	}

	var tag string
	switch ev.Kind {
	case event.FormUser:
		tag = TagUser
	case event.FormGroup:
		tag = TagGroup
	case event.FormJob:
		tag = TagJob
	case event.FormChange:
		tag = TagChangeSave
	default:
		// Forms Swarm has no interest in are accepted without queueing.
		return Result{OK: true}
	}
	return d.Enqueue(ctx, swarm.QueueItem{Type: tag, Value: ev.Name})
}

// FormDelete enqueues user and group deletions.
func (d *Dispatcher) FormDelete(ctx context.Context, ev event.Form) Result {
	if d.Config.UserIgnored(ev.User) {
		return Result{OK: true}
	}

	var tag string
	switch ev.Kind {
	case event.FormUser:
		tag = TagUserDelete
	case event.FormGroup:
		tag = TagGroupDelete
	default:
		// Only user and group deletions are queued.
		return Result{OK: true}
	}
	return d.Enqueue(ctx, swarm.QueueItem{Type: tag, Value: ev.Name})
}
