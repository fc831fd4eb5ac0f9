package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkit/modkit/internal/adapters/outbound/config"
	"github.com/modkit/modkit/internal/application"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect effective settings",
	}
	cmd.AddCommand(newConfigGetCmd(opts))
	return cmd
}

func newConfigGetCmd(opts *globalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Print effective settings",
		Long: "Print the effective value of a dotted settings key. A key naming a section\n" +
			"prints every setting below it as key=value; no key prints everything.",
		Example: "  modkit config get validate.workers\n  modkit config get feature_flags",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) > 0 {
				key = args[0]
			}

			svc, _ := newRunService(opts, cmd.ErrOrStderr(), nil)
			cfg, err := svc.Settings(application.RunRequest{Path: path})
			if err != nil {
				return err
			}
			settings, err := config.Flatten(cfg)
			if err != nil {
				return fmt.Errorf("reading settings: %w", err)
			}

			value, entries, ok := config.Lookup(settings, key)
			if !ok {
				return &ExitError{Code: 1, Err: fmt.Errorf("no setting found for %q", key)}
			}
			out := cmd.OutOrStdout()
			if entries == nil {
				fmt.Fprintln(out, value)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out, e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Project whose settings are read")
	return cmd
}
