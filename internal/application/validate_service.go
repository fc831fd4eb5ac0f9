package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/modkit/modkit/internal/domain"
	"github.com/modkit/modkit/internal/domain/validator"
)

// ErrInterrupted is returned when a run is cancelled before every validator
// finished. The partial report is still returned.
var ErrInterrupted = errors.New("validation interrupted")

// DefectError reports validators whose output handling failed. The group that
// contained them ran to completion; later groups were skipped.
type DefectError struct {
	Group   string
	Defects []error
}

func (e *DefectError) Error() string {
	msgs := make([]string, len(e.Defects))
	for i, d := range e.Defects {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("validator defect in %s group: %s", e.Group, strings.Join(msgs, "; "))
}

func (e *DefectError) Unwrap() []error { return e.Defects }

// ProgressReporter is told when each validator starts and finishes checking.
// Calls may arrive concurrently from parallel validators.
type ProgressReporter interface {
	Started(name, text string)
	Finished(name string, summary domain.Summary)
}

type noProgress struct{}

func (noProgress) Started(string, string)          {}
func (noProgress) Finished(string, domain.Summary) {}

// RunOptions controls scheduling and tool lookup for one run.
type RunOptions struct {
	Parallel bool
	// Workers bounds parallel validators; runtime.NumCPU() when zero.
	Workers int
	// Tool maps a validator command to the binary that should be run. The
	// command runs as named when nil.
	Tool    func(command string) string
	Exclude []string
}

func (o RunOptions) limit() int {
	if !o.Parallel {
		return 1
	}
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o RunOptions) command(name string) string {
	if o.Tool == nil {
		return name
	}
	return o.Tool(name)
}

// ValidateService runs exec groups of validators:
// resolve targets -> prepare -> invoke -> parse output -> cleanup.
type ValidateService struct {
	resolver domain.TargetResolver
	runner   domain.CommandRunner
	logger   *log.Logger
	progress ProgressReporter
}

func NewValidateService(
	resolver domain.TargetResolver,
	runner domain.CommandRunner,
	logger *log.Logger,
	progress ProgressReporter,
) *ValidateService {
	if progress == nil {
		progress = noProgress{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ValidateService{
		resolver: resolver,
		runner:   runner,
		logger:   logger,
		progress: progress,
	}
}

// Run executes groups in order. Validators inside a group run one at a time,
// or concurrently up to the worker limit when opts.Parallel is set; the next
// group starts only after every validator of the current one finished.
func (s *ValidateService) Run(ctx context.Context, rc domain.RunContext, groups []validator.Group, opts RunOptions) (*domain.Report, error) {
	report := domain.NewReport()

	for _, group := range groups {
		if ctx.Err() != nil {
			return report, ErrInterrupted
		}
		s.logger.Debug("running group", "group", group.Name, "validators", len(group.Validators), "workers", opts.limit())

		if defects := s.runGroup(ctx, rc, group, report, opts); len(defects) > 0 {
			for _, d := range defects {
				s.logger.Error("validator defect", "group", group.Name, "err", d)
			}
			return report, &DefectError{Group: group.Name, Defects: defects}
		}
	}

	if ctx.Err() != nil {
		return report, ErrInterrupted
	}
	return report, nil
}

func (s *ValidateService) runGroup(ctx context.Context, rc domain.RunContext, group validator.Group, report *domain.Report, opts RunOptions) []error {
	// Workers never return errors to the group so one validator's failure
	// cannot cancel its siblings.
	var g errgroup.Group
	g.SetLimit(opts.limit())

	var mu sync.Mutex
	var defects []error
	for _, v := range group.Validators {
		g.Go(func() error {
			if err := s.runValidator(ctx, rc, v, report, opts); err != nil {
				mu.Lock()
				defects = append(defects, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return defects
}

// runValidator collects a validator's events in a private report and merges
// them into the run report as one batch. Only defects are returned; content
// failures and invocation failures are recorded as events.
func (s *ValidateService) runValidator(ctx context.Context, rc domain.RunContext, v validator.Validator, report *domain.Report, opts RunOptions) (defect error) {
	if ctx.Err() != nil {
		return nil
	}

	name := v.Name()
	local := domain.NewReport()
	started := false
	defer func() {
		report.Add(local.Events()...)
		if started {
			s.progress.Finished(name, local.Summary())
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			defect = fmt.Errorf("%s: panic: %v", name, r)
		}
	}()

	exclude := append(append([]string(nil), v.PatternIgnore(rc)...), opts.Exclude...)
	targets, err := s.resolver.Resolve(rc.Root, v.Pattern(rc), exclude)
	if err != nil {
		s.logger.Error("resolving targets", "validator", name, "err", err)
		local.Add(domain.FatalEvent(name, fmt.Sprintf("resolving targets: %v", err)))
		return nil
	}
	if len(targets) == 0 {
		s.logger.Debug("no targets, skipping", "validator", name)
		return nil
	}
	rels := make([]string, len(targets))
	for i, t := range targets {
		rels[i] = t.Rel
	}

	started = true
	s.progress.Started(name, v.SpinnerText())

	if err := v.Prepare(); err != nil {
		s.logger.Error("preparing validator", "validator", name, "err", err)
		local.Add(domain.FatalEvent(name, fmt.Sprintf("preparing %s: %v", name, err)))
		return nil
	}
	defer func() {
		if err := v.Cleanup(); err != nil {
			s.logger.Warn("cleaning up validator", "validator", name, "err", err)
		}
	}()

	if ip, ok := v.(validator.InProcess); ok {
		if err := ip.CheckTargets(ctx, local, rc.Root, rels); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	command := opts.command(v.Command())
	for _, batch := range batches(v, rels) {
		if ctx.Err() != nil {
			return nil
		}
		result, err := s.runner.Run(ctx, command, v.BuildArgs(batch), rc.Root)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("invoking validator", "validator", name, "command", command, "err", err)
			local.Add(domain.FatalEvent(name, fmt.Sprintf("unable to run %s: %v", command, err)))
			return nil
		}
		s.logger.Debug("tool exited", "validator", name, "exit_code", result.ExitCode, "targets", len(batch))

		if err := v.ParseOutput(local, result, batch); err != nil {
			return fmt.Errorf("%s: parsing output: %w", name, err)
		}
	}
	return nil
}

// batches splits targets into invocations: one for all targets, or one per
// target for tools that accept a single file.
func batches(v validator.Validator, targets []string) [][]string {
	if pt, ok := v.(validator.PerTarget); ok && pt.PerTarget() {
		out := make([][]string, len(targets))
		for i, t := range targets {
			out[i] = []string{t}
		}
		return out
	}
	return [][]string{targets}
}
