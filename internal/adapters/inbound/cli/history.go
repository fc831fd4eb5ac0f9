package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkit/modkit/internal/adapters/outbound/tui"
	"github.com/modkit/modkit/internal/domain"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var (
		path       string
		jsonOutput bool
		query      domain.RunQuery
		runContext string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded validation runs",
		Long:  "Show runs recorded with \"validate --record\", oldest first.",
		Args:  cobra.NoArgs,
		Example: "  modkit history\n" +
			"  modkit history --context control-repo --last 5\n" +
			"  modkit history --validator puppet-lint --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _ := newRunService(opts, cmd.ErrOrStderr(), nil)
			query.Context = domain.ContextKind(runContext)
			entries, err := svc.History(path, query)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Project whose history is shown")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	cmd.Flags().StringVar(&runContext, "context", "", "Only runs recorded in this context (module, control-repo, none)")
	cmd.Flags().StringVar(&query.Validator, "validator", "", "Only runs that included this validator")
	cmd.Flags().IntVar(&query.Limit, "last", 0, "Only the newest N matching runs")
	return cmd
}
