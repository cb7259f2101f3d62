package main

import (
	"github.com/spf13/cobra"

	"github.com/vertigojc/p4d-swarm-extension/internal/event"
)

var (
	flagFormType string
	flagFormName string
	flagFormUser string
)

func formFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFormType, "type", "t", "", "form type (%formtype%)")
	cmd.Flags().StringVarP(&flagFormName, "name", "n", "", "form name (%formname%)")
	cmd.Flags().StringVarP(&flagFormUser, "user", "u", "", "acting user (%user%)")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("name")
}

// formCommitCmd queues user, group, job, and change-description saves.
// Form types Swarm does not process are accepted without queueing.
var formCommitCmd = &cobra.Command{
	Use:   "form-commit",
	Short: "Queue a form save for Swarm (form-commit trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ev := event.NewForm(flagFormType, flagFormName, flagFormUser)
		return finishResult(a.dispatcher().FormCommit(cmd.Context(), ev))
	},
}

var formDeleteCmd = &cobra.Command{
	Use:   "form-delete",
	Short: "Queue a user or group deletion for Swarm (form-delete trigger)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ev := event.NewForm(flagFormType, flagFormName, flagFormUser)
		return finishResult(a.dispatcher().FormDelete(cmd.Context(), ev))
	},
}

func init() {
	formFlags(formCommitCmd)
	formFlags(formDeleteCmd)
}
