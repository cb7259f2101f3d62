// Package host is the boundary to the Perforce server the trigger runs
// under.
package host

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DescriptionReader fetches a changelist's description. Descriptions
// are read on demand and never cached; the exception tags are matched
// against exactly what the server holds at event time.
type DescriptionReader interface {
	Description(ctx context.Context, change string) (string, error)
}

// P4 reads from the server through the p4 command line, which inherits
// the trigger environment's P4PORT and credentials.
type P4 struct {
	Bin  string // p4 binary; "p4" when empty
	Port string // overrides P4PORT when set
	User string // overrides P4USER when set
}

func (p *P4) Description(ctx context.Context, change string) (string, error) {
	args := make([]string, 0, 8)
	if p.Port != "" {
		args = append(args, "-p", p.Port)
	}
	if p.User != "" {
		args = append(args, "-u", p.User)
	}
	args = append(args, "-F", "%Description%", "change", "-o", change)

	bin := p.Bin
	if bin == "" {
		bin = "p4"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("p4 change -o %s: %v: %s", change, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
