package swarm

import (
	"context"
	"net/url"
)

// BuildVersion is the local trigger version, stamped at build time via
// -ldflags "-X .../internal/swarm.BuildVersion=...".
var BuildVersion = "dev"

// QueueItem is one unit of work for Swarm's worker queue: a type tag, a
// scalar value, and an optional JSON body (currently only shelve
// deletions carry one).
type QueueItem struct {
	Type  string
	Value string
	Body  []byte
}

// payload renders the queue wire format: "type,value" alone, or with
// the JSON body on a second line.
func (i QueueItem) payload() (body, contentType string) {
	header := i.Type + "," + i.Value
	if len(i.Body) == 0 {
		return header, "application/x-www-form-urlencoded"
	}
	return header + "\n" + string(i.Body), "application/json"
}

// QueueAdd hands one item to the worker queue. The queue endpoint
// authenticates with the token in the path rather than the cookie.
func (c *Client) QueueAdd(ctx context.Context, item QueueItem) error {
	body, contentType := item.payload()
	return c.Post(ctx, "queue/add/"+url.PathEscape(c.token), body, contentType)
}
