package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/modkit/modkit/internal/domain"
)

const (
	// ProjectFileName is the per-project settings file at the module root.
	ProjectFileName = ".modkit.yaml"
	envPrefix       = "MODKIT"
	// FeatureFlagsEnv lists requested feature flags, comma separated.
	FeatureFlagsEnv = "MODKIT_FEATURE_FLAGS"
)

// ViperLoader implements domain.ConfigLoader with layered settings:
// defaults < user file < project .modkit.yaml < MODKIT_* environment.
type ViperLoader struct {
	// UserFile replaces the user settings file location when set.
	UserFile string
}

func New() *ViperLoader { return &ViperLoader{} }

// UserConfigFile is the default user settings file,
// $XDG_CONFIG_HOME/modkit/config.yaml or the platform equivalent.
func UserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "modkit", "config.yaml")
}

func (l *ViperLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	v, err := l.viper(projectPath)
	if err != nil {
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("decoding settings: %w", err)
	}
	cfg.FeatureFlags.Requested = splitList(cfg.FeatureFlags.Requested)

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func (l *ViperLoader) viper(projectPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	d := domain.DefaultConfig()
	v.SetDefault("validate.validators", d.Validation.Validators)
	v.SetDefault("validate.parallel", d.Validation.Parallel)
	v.SetDefault("validate.workers", d.Validation.Workers)
	v.SetDefault("validate.formats", d.Validation.Formats)
	v.SetDefault("validate.exclude", []string{})
	v.SetDefault("validate.tools", map[string]string{})
	v.SetDefault("validate.record", d.Validation.Record)
	v.SetDefault("feature_flags.available", d.FeatureFlags.Available)
	v.SetDefault("feature_flags.requested", []string{})

	userFile := l.UserFile
	if userFile == "" {
		userFile = UserConfigFile()
	}
	if err := mergeFile(v, userFile, l.UserFile != ""); err != nil {
		return nil, err
	}
	if err := mergeFile(v, filepath.Join(projectPath, ProjectFileName), false); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("feature_flags.requested", FeatureFlagsEnv); err != nil {
		return nil, err
	}
	return v, nil
}

// mergeFile layers a YAML file over v. A missing file is skipped unless it
// was asked for explicitly.
func mergeFile(v *viper.Viper, path string, required bool) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// splitList accepts both list values and a single comma separated string,
// which is how list settings arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Flatten renders cfg as dotted keys mapped to JSON-encoded values, the form
// printed by "config get".
func Flatten(cfg domain.ProjectConfig) (map[string]string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	out := make(map[string]string)
	var walk func(prefix string, node any) error
	walk = func(prefix string, node any) error {
		if m, ok := node.(map[string]any); ok && len(m) > 0 {
			for k, child := range m {
				if err := walk(prefix+"."+k, child); err != nil {
					return err
				}
			}
			return nil
		}
		if node == nil {
			node = []any{}
		}
		b, err := json.Marshal(node)
		if err != nil {
			return err
		}
		out[strings.TrimPrefix(prefix, ".")] = string(b)
		return nil
	}
	if err := walk("", tree); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup returns the flattened settings at key: the single value when key is
// a leaf, or every setting under key as a prefix. ok is false when nothing
// matches.
func Lookup(settings map[string]string, key string) (value string, entries []string, ok bool) {
	if v, found := settings[key]; found {
		return v, nil, true
	}
	for k, v := range settings {
		if key == "" || strings.HasPrefix(k, key+".") {
			entries = append(entries, k+"="+v)
		}
	}
	sort.Strings(entries)
	return "", entries, len(entries) > 0
}
