package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/modkit/modkit/internal/adapters/outbound/config"
	"github.com/modkit/modkit/internal/adapters/outbound/detector"
	"github.com/modkit/modkit/internal/adapters/outbound/gitinfo"
	"github.com/modkit/modkit/internal/adapters/outbound/history"
	"github.com/modkit/modkit/internal/adapters/outbound/runner"
	"github.com/modkit/modkit/internal/adapters/outbound/scanner"
	"github.com/modkit/modkit/internal/application"
	"github.com/modkit/modkit/internal/logging"
)

// newRunService wires the outbound adapters into a run service. Diagnostics
// go to logOut; progress may be nil.
func newRunService(opts *globalOptions, logOut io.Writer, progress application.ProgressReporter) (*application.RunService, *log.Logger) {
	logger := logging.New(logOut, opts.verbose)
	validate := application.NewValidateService(scanner.New(), runner.New(), logger, progress)
	svc := application.NewRunService(
		&config.ViperLoader{UserFile: opts.configFile},
		detector.New(),
		validate,
		history.New(),
		gitinfo.New(),
		logger,
	)
	return svc, logger
}
