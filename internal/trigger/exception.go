// Package trigger implements the event handlers the server's trigger
// commands run: validation gates and queue dispatch.
package trigger

import (
	"context"
	"strings"

	"github.com/vertigojc/p4d-swarm-extension/internal/host"
)

// exceptionTags opt a changelist out of review enforcement when any of
// them appears anywhere in its description. Matching is case-sensitive
// and the first hit wins.
var exceptionTags = []string{"#noswarm", "#no-swarm", "#skipswarm", "#skip-swarm"}

// Matcher decides whether a changelist has opted out of validation.
// The description is read fresh on every call.
type Matcher struct {
	Descriptions host.DescriptionReader
}

// IsException reports whether the changelist carries an exception tag.
// Callers treat a true result as the sole override: no remote
// validation runs and the event is accepted.
func (m *Matcher) IsException(ctx context.Context, change string) (bool, error) {
	desc, err := m.Descriptions.Description(ctx, change)
	if err != nil {
		return false, err
	}
	for _, tag := range exceptionTags {
		if strings.Contains(desc, tag) {
			return true, nil
		}
	}
	return false, nil
}
