package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkit/modkit/internal/adapters/outbound/render"
	"github.com/modkit/modkit/internal/adapters/outbound/tui"
	"github.com/modkit/modkit/internal/application"
	"github.com/modkit/modkit/internal/domain"
	"github.com/modkit/modkit/internal/domain/validator"
)

const allValidatorsBanner = "Running all available validators..."

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var (
		list     bool
		path     string
		formats  []string
		parallel bool
		workers  int
		record   bool
	)

	cmd := &cobra.Command{
		Use:   "validate [validators...]",
		Short: "Run syntax and style checks",
		Long: "Run the selected validators (default: all) against a module or control repo.\n" +
			"Validator names may also be given comma separated. Exit status is 0 when every\n" +
			"check passed, 1 when any check failed, 2 when a checker could not run and 130\n" +
			"when interrupted.",
		Example: "  modkit validate\n" +
			"  modkit validate puppet-syntax,puppet-lint --parallel\n" +
			"  modkit validate --format text --format junit:report.xml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidators(validator.Describe()))
				return nil
			}

			progress := tui.NewProgressPrinter(cmd.ErrOrStderr())
			svc, logger := newRunService(opts, cmd.ErrOrStderr(), progress)
			req := application.RunRequest{Path: path, Validators: args, Formats: formats}
			flags := cmd.Flags()
			if flags.Changed("parallel") {
				req.Parallel = &parallel
			}
			if flags.Changed("workers") {
				req.Workers = &workers
			}
			if flags.Changed("record") {
				req.Record = &record
			}

			if cfg, err := svc.Settings(req); err == nil && validator.SelectsAll(cfg.Validation.Validators) {
				progress.Banner(allValidatorsBanner)
			}

			result, runErr := svc.Execute(cmd.Context(), req)
			if result == nil {
				return runErr
			}

			streams := render.Streams{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
			if err := render.Write(result.Formats, result.Report, streams, ""); err != nil {
				return &ExitError{Code: domain.ExitFatal, Err: err}
			}
			exitErr := runExit(result.Report, runErr)
			if runErr != nil {
				logger.Debug("run ended early", "err", runErr)
			}
			fmt.Fprint(cmd.ErrOrStderr(), tui.RenderSummary(result.Report.Summary(), exitCode(exitErr)))
			return exitErr
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available validators and exit")
	cmd.Flags().StringVar(&path, "path", ".", "Module or control repo to validate")
	cmd.Flags().StringArrayVarP(&formats, "format", "f", nil, "Report format as format[:target] (text, junit, json; target stdout, stderr or a file). Repeatable")
	cmd.Flags().BoolVarP(&parallel, "parallel", "p", false, "Run validators of a group in parallel")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel worker limit (default: number of CPUs)")
	cmd.Flags().BoolVar(&record, "record", false, "Record the run in the project's history")

	return cmd
}
