package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/modkit/modkit/internal/domain"
	"github.com/modkit/modkit/internal/domain/validator"
)

// RunRequest describes one validate invocation. Nil fields fall back to the
// loaded settings.
type RunRequest struct {
	Path       string
	Validators []string
	Parallel   *bool
	Workers    *int
	Formats    []string
	Record     *bool
}

// RunResult is what a validate invocation produced. Report is set even when
// Execute returns ErrInterrupted or a *DefectError.
type RunResult struct {
	Report  *domain.Report
	Context domain.RunContext
	Config  domain.ProjectConfig
	Formats []domain.FormatSpec
	Entry   *domain.RunEntry
}

// RunService wires settings, context detection and history around the
// validation engine: load config -> detect context -> build groups -> run -> record.
type RunService struct {
	configLoader domain.ConfigLoader
	detector     domain.ContextDetector
	validate     *ValidateService
	history      domain.RunHistory
	git          domain.GitInfo
	logger       *log.Logger
}

func NewRunService(
	configLoader domain.ConfigLoader,
	detector domain.ContextDetector,
	validate *ValidateService,
	history domain.RunHistory,
	git domain.GitInfo,
	logger *log.Logger,
) *RunService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RunService{
		configLoader: configLoader,
		detector:     detector,
		validate:     validate,
		history:      history,
		git:          git,
		logger:       logger,
	}
}

// Settings loads the effective settings for path with req's overrides applied.
func (s *RunService) Settings(req RunRequest) (domain.ProjectConfig, error) {
	cfg, err := s.configLoader.Load(req.Path)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	v := &cfg.Validation
	if len(req.Validators) > 0 {
		v.Validators = req.Validators
	}
	if req.Parallel != nil {
		v.Parallel = *req.Parallel
	}
	if req.Workers != nil {
		v.Workers = *req.Workers
	}
	if len(req.Formats) > 0 {
		v.Formats = req.Formats
	}
	if req.Record != nil {
		v.Record = *req.Record
	}
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (s *RunService) Execute(ctx context.Context, req RunRequest) (*RunResult, error) {
	root, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	req.Path = root

	cfg, err := s.Settings(req)
	if err != nil {
		return nil, err
	}
	formats := make([]domain.FormatSpec, 0, len(cfg.Validation.Formats))
	for _, f := range cfg.Validation.Formats {
		spec, err := domain.ParseFormatSpec(f)
		if err != nil {
			return nil, err
		}
		formats = append(formats, spec)
	}

	rc, err := s.detector.Detect(root, cfg.FeatureFlags)
	if err != nil {
		return nil, fmt.Errorf("detecting context: %w", err)
	}
	if rc.Kind == domain.ContextNone {
		s.logger.Warn("no module or control repo found, validating directory as-is", "path", root)
	}

	groups, err := validator.Groups(cfg.Validation.Validators)
	if err != nil {
		return nil, err
	}

	report, runErr := s.validate.Run(ctx, rc, groups, RunOptions{
		Parallel: cfg.Validation.Parallel,
		Workers:  cfg.Validation.Workers,
		Tool:     cfg.ToolCommand,
		Exclude:  cfg.Validation.Exclude,
	})
	result := &RunResult{Report: report, Context: rc, Config: cfg, Formats: formats}

	if cfg.Validation.Record && runErr == nil {
		entry := s.entry(root, rc, groups, report)
		if err := s.history.Save(root, entry); err != nil {
			s.logger.Warn("recording run", "err", err)
		} else {
			result.Entry = &entry
		}
	}
	return result, runErr
}

func (s *RunService) entry(root string, rc domain.RunContext, groups []validator.Group, report *domain.Report) domain.RunEntry {
	var names []string
	for _, g := range groups {
		for _, v := range g.Validators {
			names = append(names, v.Name())
		}
	}
	entry := domain.RunEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Context:    string(rc.Kind),
		Validators: names,
		Summary:    report.Summary(),
		ExitCode:   report.ExitCode(),
	}
	if s.git != nil && s.git.IsGitRepo(root) {
		if hash, err := s.git.CommitHash(root); err == nil {
			entry.CommitHash = hash
		}
	}
	return entry
}

// History returns the recorded runs for path that q selects, oldest first.
func (s *RunService) History(path string, q domain.RunQuery) ([]domain.RunEntry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	entries, err := s.history.Load(root)
	if err != nil {
		return nil, err
	}
	return q.Apply(entries), nil
}
