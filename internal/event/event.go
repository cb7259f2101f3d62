// Package event defines the typed payloads built at the host boundary
// from the server's per-event trigger variables.
package event

import (
	"strings"

	"github.com/google/uuid"
)

// FormKind enumerates the form types the server raises form triggers
// for. Kinds outside this set map to FormUnknown and are accepted as
// no-ops.
type FormKind int

const (
	FormUnknown FormKind = iota
	FormUser
	FormGroup
	FormJob
	FormChange
)

// ParseFormKind maps the server's form-type string onto a kind.
func ParseFormKind(s string) FormKind {
	switch s {
	case "user":
		return FormUser
	case "group":
		return FormGroup
	case "job":
		return FormJob
	case "change":
		return FormChange
	default:
		return FormUnknown
	}
}

func (k FormKind) String() string {
	switch k {
	case FormUser:
		return "user"
	case FormGroup:
		return "group"
	case FormJob:
		return "job"
	case FormChange:
		return "change"
	default:
		return "unknown"
	}
}

// Change is a changelist-scoped event: a submit, content-transfer,
// shelve, or commit raised by the server.
type Change struct {
	ID      string // changelist number
	User    string // acting user
	Client  string // client workspace name
	TraceID string // correlates log lines for one event
}

// NewChange builds a Change payload from the host's trigger variables.
func NewChange(id, user, client string) Change {
	return Change{ID: id, User: user, Client: client, TraceID: uuid.NewString()}
}

// ShelveDelete is a shelve-deletion event; Files holds the raw shelved
// file arguments relative to the client root.
type ShelveDelete struct {
	Change
	Root  string // client workspace root on the submitting machine
	Files []string
}

// NewShelveDelete builds a ShelveDelete payload.
func NewShelveDelete(id, user, client, root string, files []string) ShelveDelete {
	return ShelveDelete{
		Change: NewChange(id, user, client),
		Root:   root,
		Files:  files,
	}
}

// Form is a form-commit or form-delete event.
type Form struct {
	Kind    FormKind
	Name    string // form identifier (user name, group name, job id, change number)
	User    string // acting user
	TraceID string
}

// NewForm builds a Form payload from the host's form type and name.
func NewForm(formType, name, user string) Form {
	return Form{
		Kind:    ParseFormKind(formType),
		Name:    name,
		User:    user,
		TraceID: uuid.NewString(),
	}
}

// SplitQuotedArgs splits the host's raw quoted argument list: fields
// are space-separated, double quotes group fields containing spaces,
// and quotes do not nest.
func SplitQuotedArgs(raw string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}
	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return args
}
