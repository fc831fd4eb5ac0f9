package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/modkit/modkit/internal/domain"
)

const metadataSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "version", "author", "license", "summary", "source", "dependencies"],
  "properties": {
    "name": {"type": "string", "pattern": "^[A-Za-z0-9]+[-/][a-z][a-z0-9_]*$"},
    "version": {"type": "string", "pattern": "^[0-9]+\\.[0-9]+\\.[0-9]+"},
    "author": {"type": "string", "minLength": 1},
    "license": {"type": "string", "minLength": 1},
    "summary": {"type": "string", "minLength": 1},
    "source": {"type": "string"},
    "dependencies": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "version_requirement": {"type": "string"}
        }
      }
    },
    "operatingsystem_support": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["operatingsystem"],
        "properties": {
          "operatingsystem": {"type": "string"},
          "operatingsystemrelease": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "requirements": {"type": "array"}
  }
}`

var compiledMetadataSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(metadataSchema))
})

// MetadataSyntax checks that module and task metadata files are well-formed
// JSON, and that metadata.json carries the fields a module must declare.
type MetadataSyntax struct {
	inProcessBase
}

func NewMetadataSyntax() *MetadataSyntax { return &MetadataSyntax{} }

func (v *MetadataSyntax) Name() string { return "metadata-syntax" }

func (v *MetadataSyntax) SpinnerText() string {
	return "Checking metadata syntax (metadata.json tasks/*.json)."
}

func (v *MetadataSyntax) Pattern(rc domain.RunContext) []string {
	return rc.ContextualPatterns("metadata.json", "tasks/*.json")
}

func (v *MetadataSyntax) PatternIgnore(_ domain.RunContext) []string { return nil }

func (v *MetadataSyntax) CheckTargets(ctx context.Context, report *domain.Report, root string, targets []string) error {
	schema, err := compiledMetadataSchema()
	if err != nil {
		return fmt.Errorf("compiling metadata schema: %w", err)
	}

	var events []domain.Event
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			break
		}
		events = append(events, v.checkFile(schema, root, target)...)
	}
	report.Add(events...)
	return nil
}

func (v *MetadataSyntax) checkFile(schema *gojsonschema.Schema, root, target string) []domain.Event {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(target)))
	if err != nil {
		return []domain.Event{v.failure(target, "", "", "", fmt.Sprintf("unable to read file: %v", err))}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		line, col := jsonErrorPosition(data, err)
		return []domain.Event{v.failure(target, line, col, "", err.Error())}
	}

	if path.Base(target) != "metadata.json" {
		return []domain.Event{domain.PassedEvent(v.Name(), target)}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []domain.Event{v.failure(target, "", "", "schema", err.Error())}
	}
	if result.Valid() {
		return []domain.Event{domain.PassedEvent(v.Name(), target)}
	}
	events := make([]domain.Event, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		events = append(events, v.failure(target, "", "", "schema", fmt.Sprintf("%s: %s", re.Field(), re.Description())))
	}
	return events
}

func (v *MetadataSyntax) failure(file, line, col, test, msg string) domain.Event {
	return domain.Event{
		Source:   v.Name(),
		File:     file,
		Line:     line,
		Column:   col,
		Test:     test,
		Severity: domain.SeverityError,
		State:    domain.StateFailure,
		Message:  msg,
	}
}

// jsonErrorPosition turns a decoder byte offset into a 1-based line and column.
func jsonErrorPosition(data []byte, err error) (string, string) {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return "", ""
	}
	// Offset counts the offending byte; report the position of that byte.
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset > 0 {
		offset--
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := len(before) - bytes.LastIndexByte(before, '\n')
	return strconv.Itoa(line), strconv.Itoa(col)
}
