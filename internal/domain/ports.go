package domain

import (
	"context"
	"time"
)

// TargetResolver discovers the files a validator should check under root.
type TargetResolver interface {
	Resolve(root string, include, exclude []string) ([]Target, error)
}

// CommandResult is what one external process produced. Stdout and Stderr are
// captured separately.
type CommandResult struct {
	Stdout   []byte `json:"stdout"`
	Stderr   []byte `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// CommandRunner spawns one external process. A non-zero exit status is
// returned in the result, not as an error; errors mean the process could not
// be run at all.
type CommandRunner interface {
	Run(ctx context.Context, command string, args []string, dir string) (CommandResult, error)
}

// ContextDetector decides whether root is a module, a control repo, or
// neither. Control repos are only recognised when the feature flag is enabled.
type ContextDetector interface {
	Detect(root string, flags FeatureFlags) (RunContext, error)
}

// ConfigLoader loads the layered settings for a project.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// GitInfo provides version control metadata.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// RunHistory persists summaries of past validation runs.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}

// RunEntry is one recorded validation run.
type RunEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Context    string    `json:"context"`
	Validators []string  `json:"validators"`
	Summary    Summary   `json:"summary"`
	ExitCode   int       `json:"exit_code"`
}
