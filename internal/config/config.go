// Package config loads the trigger configuration from the layered
// global and instance sources and exposes it as an immutable snapshot.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultGlobalPath and DefaultInstancePath are where the trigger looks
// for its configuration when no explicit paths are given.
const (
	DefaultGlobalPath   = "/etc/perforce/swarm-global.yaml"
	DefaultInstancePath = "/etc/perforce/swarm-instance.yaml"
)

// BootstrapDebug is the verbosity assumed before configuration is
// loaded; DefaultDebug applies once it is.
const (
	BootstrapDebug = 3
	DefaultDebug   = 2
)

// Snapshot is the configuration for one trigger invocation. It is a
// value type and never mutated after Load returns it; reconfiguration
// is a fresh Load producing a new snapshot.
type Snapshot struct {
	// Global scope.
	URL     string `koanf:"url"`
	Token   string `koanf:"token"`
	Secure  bool   `koanf:"secure"`
	Cookies string `koanf:"cookies"`
	Debug   int    `koanf:"debug"`

	// Instance scope.
	DepotPath    string   `koanf:"depot_path"`
	Workflow     bool     `koanf:"workflow"`
	Strict       bool     `koanf:"strict"`
	Timeout      int      `koanf:"timeout"`
	IgnoreErrors bool     `koanf:"ignore_errors"`
	IgnoredUsers []string `koanf:"ignored_users"`

	// SecureSet records whether secure was present in any source.
	// When it is false the client does not verify TLS certificates;
	// existing deployments depend on that permissive default.
	SecureSet bool `koanf:"-"`
}

// Load builds a snapshot from the global file, the instance file
// (shadowing global keys), and SWARM_-prefixed environment variables
// (shadowing both). Missing files are not an error; missing required
// keys are caught by Check.
func Load(globalPath, instancePath string) (Snapshot, error) {
	k := koanf.New(".")

	for _, path := range []string{globalPath, instancePath} {
		if path == "" {
			continue
		}
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Snapshot{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("SWARM_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SWARM_"))
	}), nil); err != nil {
		return Snapshot{}, fmt.Errorf("load environment: %w", err)
	}

	// Default values
	if !k.Exists("debug") {
		if err := k.Set("debug", DefaultDebug); err != nil {
			return Snapshot{}, fmt.Errorf("default debug: %w", err)
		}
	}

	var s Snapshot
	if err := k.Unmarshal("", &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal configuration: %w", err)
	}
	s.SecureSet = k.Exists("secure")

	if s.URL != "" && !strings.HasSuffix(s.URL, "/") {
		s.URL += "/"
	}

	return s, nil
}

// RequestTimeout returns the per-request bound, or zero when calls are
// unbounded.
func (s Snapshot) RequestTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 0
	}
	return time.Duration(s.Timeout) * time.Second
}

// UserIgnored reports whether events acted by user should be skipped
// entirely. The ignored list normally carries the Swarm service
// account, whose own activity must not feed back into the queue.
func (s Snapshot) UserIgnored(user string) bool {
	for _, u := range s.IgnoredUsers {
		if u == user {
			return true
		}
	}
	return false
}

// A Problem is one failed or suspicious configuration check.
type Problem struct {
	Key    string
	Detail string
	Fatal  bool
}

func (p Problem) String() string {
	return p.Key + ": " + p.Detail
}

// Check validates the snapshot against the configuration schema and
// returns every problem found. Reachability is the caller's concern.
func (s Snapshot) Check() []Problem {
	var problems []Problem

	switch {
	case s.URL == "":
		problems = append(problems, Problem{"url", "required but not set", true})
	default:
		if u, err := url.Parse(s.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			problems = append(problems, Problem{"url", fmt.Sprintf("%q is not a valid http(s) URL", s.URL), true})
		}
	}

	if s.Token == "" {
		problems = append(problems, Problem{"token", "required but not set", true})
	}

	if s.DepotPath != "" && !strings.HasPrefix(s.DepotPath, "//") {
		problems = append(problems, Problem{"depot_path", fmt.Sprintf("%q must start with //", s.DepotPath), true})
	}

	if s.Debug < 0 || s.Debug > 9 {
		problems = append(problems, Problem{"debug", fmt.Sprintf("%d is outside 0-9", s.Debug), true})
	}

	if !s.SecureSet {
		problems = append(problems, Problem{"secure", "not set; certificate verification is disabled", false})
	}

	return problems
}

// TLSVerify reports whether the client should verify server
// certificates. Absent an explicit secure setting verification is off.
func (s Snapshot) TLSVerify() bool {
	return s.SecureSet && s.Secure
}

// StrictTLSVerify is TLSVerify with the default flipped: an unset
// secure setting counts as enforcing. Configuration validation probes
// with this so a broken certificate chain surfaces before a deployment
// silently relies on the permissive runtime default.
func (s Snapshot) StrictTLSVerify() bool {
	return !s.SecureSet || s.Secure
}

// LogLevel maps the 0-9 debug setting onto slog's level scale: 0-1
// errors only, 2-3 warnings, 4-5 info, 6+ debug.
func (s Snapshot) LogLevel() slog.Level {
	return DebugToLevel(s.Debug)
}

// DebugToLevel converts a debug verbosity (0-9) to a slog level.
func DebugToLevel(debug int) slog.Level {
	switch {
	case debug <= 1:
		return slog.LevelError
	case debug <= 3:
		return slog.LevelWarn
	case debug <= 5:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
