package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vertigojc/p4d-swarm-extension/internal/swarm"
	"github.com/vertigojc/p4d-swarm-extension/internal/trigger"
)

// pingCmd round-trips a probe item through the queue endpoint. Swarm's
// workers discard unknown probe values, so this is safe against a live
// instance.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the Swarm queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		r := a.dispatcher().Enqueue(cmd.Context(), swarm.QueueItem{
			Type:  trigger.TagPing,
			Value: uuid.NewString(),
		})
		if !r.OK {
			fmt.Printf("BAD: %s\n", r.Message)
			return errRejected
		}
		fmt.Printf("OK %s\n", a.cfg.URL)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the local trigger and remote Swarm versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Printf("swarm-trigger %s\n", swarm.BuildVersion)
		remote, err := a.client.Version(cmd.Context())
		if err != nil {
			fmt.Printf("swarm: unavailable (%v)\n", err)
			return errRejected
		}
		fmt.Printf("swarm: %s\n", remote)
		return nil
	},
}

// validateCmd reports configuration sanity: schema problems first,
// then a live reachability probe when the URL itself is usable.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the trigger configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		failed := false
		for _, p := range a.cfg.Check() {
			if p.Fatal {
				failed = true
				fmt.Printf("error: %s\n", p)
			} else {
				fmt.Printf("warning: %s\n", p)
			}
		}

		if !failed {
			// The probe verifies certificates even when secure is unset:
			// a validation run should surface a bad chain rather than
			// inherit the permissive runtime default.
			probe := swarm.NewClient(a.cfg.URL, a.cfg.Token,
				swarm.WithCookies(a.cfg.Cookies),
				swarm.WithTimeout(a.cfg.RequestTimeout()),
				swarm.WithTLSVerification(a.cfg.StrictTLSVerify()),
			)
			if remote, err := probe.Version(cmd.Context()); err != nil {
				failed = true
				fmt.Printf("error: url: %s is not reachable (%v)\n", a.cfg.URL, err)
			} else {
				fmt.Printf("ok: swarm %s at %s\n", remote, a.cfg.URL)
			}
		}

		if failed {
			return errRejected
		}
		fmt.Println("ok: configuration is valid")
		return nil
	},
}
