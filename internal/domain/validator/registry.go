package validator

import (
	"fmt"
	"strings"
)

// Group names, in execution order.
const (
	GroupSyntax = "syntax"
	GroupStyle  = "style"
)

// All selects every registered validator.
const All = "all"

var groupOrder = []string{GroupSyntax, GroupStyle}

type entry struct {
	name        string
	group       string
	description string
	build       func() Validator
}

var registry = []entry{
	{"metadata-syntax", GroupSyntax, "Check metadata.json and task metadata are valid JSON", func() Validator { return NewMetadataSyntax() }},
	{"puppet-syntax", GroupSyntax, "Check Puppet manifests parse", func() Validator { return NewPuppetSyntax() }},
	{"puppet-epp", GroupSyntax, "Check Puppet EPP templates parse", func() Validator { return NewPuppetEPP() }},
	{"yaml-syntax", GroupSyntax, "Check YAML files parse", func() Validator { return NewYAMLSyntax() }},
	{"metadata-json-lint", GroupStyle, "Check module metadata style", func() Validator { return NewMetadataJSONLint() }},
	{"puppet-lint", GroupStyle, "Check Puppet manifest style", func() Validator { return NewPuppetLint() }},
	{"rubocop", GroupStyle, "Check Ruby code style", func() Validator { return NewRubocop() }},
}

// Names returns every registered validator name in registration order.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Description is a registered validator as shown by listings.
type Description struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

func Describe() []Description {
	out := make([]Description, len(registry))
	for i, e := range registry {
		out[i] = Description{Name: e.name, Group: e.group, Description: e.description}
	}
	return out
}

// Groups builds fresh validator instances for the selected names, arranged in
// execution groups. Empty selection or "all" selects every validator. Groups
// left without validators are omitted.
func Groups(names []string) ([]Group, error) {
	selected, err := selection(names)
	if err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(groupOrder))
	for _, g := range groupOrder {
		group := Group{Name: g}
		for _, e := range registry {
			if e.group == g && selected(e.name) {
				group.Validators = append(group.Validators, e.build())
			}
		}
		if len(group.Validators) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// SelectsAll reports whether names select every validator: nothing named, or
// "all" among them.
func SelectsAll(names []string) bool {
	named := false
	for _, raw := range names {
		for _, n := range strings.Split(raw, ",") {
			n = strings.TrimSpace(n)
			if n == All {
				return true
			}
			named = named || n != ""
		}
	}
	return !named
}

func selection(names []string) (func(string) bool, error) {
	want := make(map[string]bool)
	for _, raw := range names {
		for _, n := range strings.Split(raw, ",") {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if n == All {
				return func(string) bool { return true }, nil
			}
			if !known(n) {
				return nil, fmt.Errorf("unknown validator %q (available: %s)", n, strings.Join(Names(), ", "))
			}
			want[n] = true
		}
	}
	if len(want) == 0 {
		return func(string) bool { return true }, nil
	}
	return func(name string) bool { return want[name] }, nil
}

func known(name string) bool {
	for _, e := range registry {
		if e.name == name {
			return true
		}
	}
	return false
}
