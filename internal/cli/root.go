// Package cli implements the txdemo command line: bootstrap an entity, record
// transactional follow-ups against it and show the stored documents, using
// the same configuration profiles and store drivers as the HTTP service.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the root command. Failures are printed to stderr and exit 1.
func Execute() {
	cmd := NewRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	profile   string
	configDir string
	key       string
}

// NewRootCmd builds the txdemo command tree. Documents are written to stdout
// and logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "txdemo",
		Short:         "Transactional follow-up demo over the configured document store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&flags.profile, "profile", envOr("APP_PROFILE", "local"),
		"configuration profile (local, dev, prod)")
	cmd.PersistentFlags().StringVar(&flags.configDir, "config-dir", "configs",
		"directory holding base.yaml and the profile files")
	cmd.PersistentFlags().StringVar(&flags.key, "key", "", "entity key (defaults to seed.entity_key)")

	cmd.AddCommand(
		bootstrapCmd(flags),
		followupCmd(flags),
		showCmd(flags),
	)
	return cmd
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
