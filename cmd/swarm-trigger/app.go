package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vertigojc/p4d-swarm-extension/internal/config"
	"github.com/vertigojc/p4d-swarm-extension/internal/host"
	"github.com/vertigojc/p4d-swarm-extension/internal/swarm"
	"github.com/vertigojc/p4d-swarm-extension/internal/telemetry"
	"github.com/vertigojc/p4d-swarm-extension/internal/trigger"
)

// app bundles the per-invocation runtime: one immutable configuration
// snapshot, one Swarm client, one logger. Each trigger event is its own
// process, so reconfiguration is simply the next invocation's Load.
type app struct {
	cfg      config.Snapshot
	client   *swarm.Client
	log      *slog.Logger
	shutdown func(context.Context) error
}

func newApp() (*app, error) {
	cfg, err := config.Load(globalConfigPath, instanceConfigPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.InitTracer("swarm-trigger", logger)
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}

	client := swarm.NewClient(cfg.URL, cfg.Token,
		swarm.WithCookies(cfg.Cookies),
		swarm.WithTimeout(cfg.RequestTimeout()),
		swarm.WithTLSVerification(cfg.TLSVerify()),
	)

	return &app{cfg: cfg, client: client, log: logger, shutdown: shutdown}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.log.Error("tracer shutdown failed", slog.String("error", err.Error()))
	}
}

func (a *app) workflow() *trigger.Workflow {
	return &trigger.Workflow{
		Config:     a.cfg,
		Checks:     a.client,
		Exceptions: &trigger.Matcher{Descriptions: &host.P4{}},
		Log:        a.log,
	}
}

func (a *app) dispatcher() *trigger.Dispatcher {
	return &trigger.Dispatcher{
		Config: a.cfg,
		Queue:  a.client,
		Log:    a.log,
	}
}

// finishDecision prints a gate decision for p4d: rejection messages go
// to stdout, where the server relays them to the submitting client.
func finishDecision(d trigger.Decision) error {
	if d.Message != "" {
		fmt.Println(d.Message)
	}
	if d.Accept {
		return nil
	}
	return errRejected
}

// finishResult does the same for dispatch outcomes.
func finishResult(r trigger.Result) error {
	if r.Message != "" {
		fmt.Println(r.Message)
	}
	if r.OK {
		return nil
	}
	return errRejected
}
