package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vertigojc/p4d-swarm-extension/internal/config"
)

// errRejected signals an event rejection or failed operator check; the
// user-facing message has already been printed to stdout.
var errRejected = errors.New("rejected")

var (
	globalConfigPath   string
	instanceConfigPath string
)

// rootCmd is the trigger entry point. The server invokes one
// subcommand per lifecycle event; operators use ping, version, and
// validate directly.
var rootCmd = &cobra.Command{
	Use:   "swarm-trigger",
	Short: "Relay Perforce trigger events to Swarm",
	Long: `swarm-trigger connects a Perforce server to Swarm: it gates submits and
shelves on Swarm's workflow verdicts and queues committed changes,
shelves, and form mutations for review processing.

Install one trigger line per event, for example:

  swarm.enforce  change-submit  //depot/...  "swarm-trigger change-submit -c %change% -u %user%"
  swarm.strict   change-content //depot/...  "swarm-trigger change-content -c %change% -u %user%"
  swarm.commit   change-commit  //depot/...  "swarm-trigger change-commit -c %change% -u %user%"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "global-config", config.DefaultGlobalPath, "global configuration file")
	rootCmd.PersistentFlags().StringVar(&instanceConfigPath, "instance-config", config.DefaultInstancePath, "instance configuration file")

	rootCmd.AddCommand(
		changeSubmitCmd,
		changeContentCmd,
		shelveSubmitCmd,
		changeCommitCmd,
		shelveCommitCmd,
		shelveDeleteCmd,
		formCommitCmd,
		formDeleteCmd,
		pingCmd,
		versionCmd,
		validateCmd,
	)
}
