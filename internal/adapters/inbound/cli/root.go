package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose    bool
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "modkit",
		Short:         "Validate Puppet modules and control repos",
		Long:          "modkit runs syntax and style checkers over a Puppet module or control repo and reports every finding in one place.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "User settings file (default $XDG_CONFIG_HOME/modkit/config.yaml)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the command tree. An interrupt cancels the command context.
func Execute() error {
	return fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version+" ("+commit+")"),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
}

// handleError prints command errors. Exit statuses that only carry a verdict
// already reported on stdout are not printed again.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
