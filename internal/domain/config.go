package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Report format names.
const (
	FormatText  = "text"
	FormatJUnit = "junit"
	FormatJSON  = "json"
)

// ValidFormats enumerates the report formats that can be rendered.
var ValidFormats = []string{FormatText, FormatJUnit, FormatJSON}

// FeatureControlRepo gates control-repo context detection.
const FeatureControlRepo = "controlrepo"

// ProjectConfig holds the layered settings: defaults, user file, project
// .modkit.yaml and MODKIT_* environment variables, in increasing precedence.
type ProjectConfig struct {
	Validation   ValidateConfig `mapstructure:"validate"      yaml:"validate"      json:"validate"`
	FeatureFlags FeatureFlags   `mapstructure:"feature_flags" yaml:"feature_flags" json:"feature_flags"`
}

// ValidateConfig configures the validate command.
type ValidateConfig struct {
	Validators []string          `mapstructure:"validators" yaml:"validators" json:"validators"           validate:"dive,required"`
	Parallel   bool              `mapstructure:"parallel"   yaml:"parallel"   json:"parallel"`
	Workers    int               `mapstructure:"workers"    yaml:"workers"    json:"workers"              validate:"min=0,max=256"`
	Formats    []string          `mapstructure:"formats"    yaml:"formats"    json:"formats"              validate:"min=1,dive,format_spec"`
	Exclude    []string          `mapstructure:"exclude"    yaml:"exclude"    json:"exclude,omitempty"    validate:"dive,required"`
	Tools      map[string]string `mapstructure:"tools"      yaml:"tools"      json:"tools,omitempty"      validate:"dive,keys,required,endkeys,required"`
	Record     bool              `mapstructure:"record"     yaml:"record"     json:"record"`
}

// FeatureFlags lists the flags this build knows about and the ones requested.
type FeatureFlags struct {
	Available []string `mapstructure:"available" yaml:"available" json:"available"`
	Requested []string `mapstructure:"requested" yaml:"requested" json:"requested"`
}

// Enabled reports whether name is both available and requested.
func (f FeatureFlags) Enabled(name string) bool {
	return contains(f.Available, name) && contains(f.Requested, name)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Validation: ValidateConfig{
			Validators: []string{"all"},
			Formats:    []string{FormatText + ":stdout"},
		},
		FeatureFlags: FeatureFlags{
			Available: []string{FeatureControlRepo},
		},
	}
}

// ToolCommand returns the configured binary for command, or command itself.
func (c ProjectConfig) ToolCommand(command string) string {
	if p, ok := c.Validation.Tools[command]; ok && p != "" {
		return p
	}
	return command
}

// FormatSpec is one requested output: a format name and where it goes.
type FormatSpec struct {
	Format string `json:"format"`
	Target string `json:"target"`
}

// ParseFormatSpec parses "format[:target]". The target defaults to stdout.
func ParseFormatSpec(s string) (FormatSpec, error) {
	name, target, _ := strings.Cut(strings.TrimSpace(s), ":")
	if !contains(ValidFormats, name) {
		return FormatSpec{}, fmt.Errorf("unknown format %q (valid: %s)", name, strings.Join(ValidFormats, ", "))
	}
	if target == "" {
		target = "stdout"
	}
	return FormatSpec{Format: name, Target: target}, nil
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("format_spec", func(fl validator.FieldLevel) bool {
		_, err := ParseFormatSpec(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "ProjectConfig.")
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", field, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", field, fe.Param(), fe.Value())
	case "format_spec":
		return fmt.Sprintf("%s: unknown format %q (valid: %s)", field, fe.Value(), strings.Join(ValidFormats, ", "))
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
