package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/modkit/modkit/internal/domain"
)

const historyFile = ".modkit/history/runs.json"

// maxEntries caps the file; the oldest runs are dropped first.
const maxEntries = 200

// FileHistory implements domain.RunHistory as a JSON array of runs kept under
// the project root, oldest first.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Save appends entry and rewrites the file through a temporary sibling, so a
// run interrupted mid-write leaves the previous history intact.
func (h *FileHistory) Save(projectPath string, entry domain.RunEntry) error {
	if entry.ID == "" {
		return errors.New("run entry has no id")
	}
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run history: %w", err)
	}
	return writeAtomic(filepath.Join(projectPath, historyFile), data)
}

// Load returns the recorded runs ordered by timestamp. A project that never
// recorded a run has no history and no error.
func (h *FileHistory) Load(projectPath string) ([]domain.RunEntry, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}
	slices.SortStableFunc(entries, func(a, b domain.RunEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return entries, nil
}

func writeAtomic(fp string, data []byte) error {
	dir := filepath.Dir(fp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "runs-*.json")
	if err != nil {
		return fmt.Errorf("creating history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fp)
}
