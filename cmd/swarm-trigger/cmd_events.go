package main

import (
	"github.com/spf13/cobra"

	"github.com/vertigojc/p4d-swarm-extension/internal/event"
)

var (
	flagChange     string
	flagUser       string
	flagClient     string
	flagClientRoot string
	flagArgs       string
)

func changeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagChange, "change", "c", "", "changelist number (%change%)")
	cmd.Flags().StringVarP(&flagUser, "user", "u", "", "acting user (%user%)")
	cmd.Flags().StringVar(&flagClient, "client", "", "client workspace (%client%)")
	cmd.MarkFlagRequired("change")
	cmd.MarkFlagRequired("user")
}

// changeSubmitCmd is the pre-transfer gate: run as a change-submit
// trigger, before file content reaches the server.
var changeSubmitCmd = &cobra.Command{
	Use:   "change-submit",
	Short: "Gate a submit on Swarm's enforced check (change-submit trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ev := event.NewChange(flagChange, flagUser, flagClient)
		return finishDecision(a.workflow().PreCheck(cmd.Context(), ev))
	},
}

// changeContentCmd is the post-transfer gate: run as a change-content
// trigger once file content is on the server.
var changeContentCmd = &cobra.Command{
	Use:   "change-content",
	Short: "Gate a submit on Swarm's strict check (change-content trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ev := event.NewChange(flagChange, flagUser, flagClient)
		return finishDecision(a.workflow().PostCheck(cmd.Context(), ev))
	},
}

var shelveSubmitCmd = &cobra.Command{
	Use:   "shelve-submit",
	Short: "Gate a shelve on Swarm's shelve check (shelve-submit trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ev := event.NewChange(flagChange, flagUser, flagClient)
		return finishDecision(a.workflow().ShelveCheck(cmd.Context(), ev))
	},
}

var changeCommitCmd = &cobra.Command{
	Use:   "change-commit",
	Short: "Queue a committed change for Swarm (change-commit trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ev := event.NewChange(flagChange, flagUser, flagClient)
		return finishResult(a.dispatcher().Commit(cmd.Context(), ev))
	},
}

var shelveCommitCmd = &cobra.Command{
	Use:   "shelve-commit",
	Short: "Queue a shelved change for Swarm (shelve-commit trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ev := event.NewChange(flagChange, flagUser, flagClient)
		return finishResult(a.dispatcher().Shelve(cmd.Context(), ev))
	},
}

// shelveDeleteCmd queues a shelve deletion. Files may be given as
// positional arguments or through --args as the server's raw quoted
// list (%argsQuoted%); both are combined.
var shelveDeleteCmd = &cobra.Command{
	Use:   "shelve-delete [files...]",
	Short: "Queue a shelve deletion for Swarm (shelve-delete trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		files := append([]string{}, args...)
		if flagArgs != "" {
			files = append(files, event.SplitQuotedArgs(flagArgs)...)
		}

		ev := event.NewShelveDelete(flagChange, flagUser, flagClient, flagClientRoot, files)
		return finishResult(a.dispatcher().ShelveDelete(cmd.Context(), ev))
	},
}

func init() {
	changeFlags(changeSubmitCmd)
	changeFlags(changeContentCmd)
	changeFlags(shelveSubmitCmd)
	changeFlags(changeCommitCmd)
	changeFlags(shelveCommitCmd)
	changeFlags(shelveDeleteCmd)
	shelveDeleteCmd.Flags().StringVar(&flagClientRoot, "client-root", "", "client workspace root (%clientRoot%)")
	shelveDeleteCmd.Flags().StringVar(&flagArgs, "args", "", "raw quoted shelved-file arguments (%argsQuoted%)")
}
