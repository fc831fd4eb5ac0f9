package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modkit/modkit/internal/domain/validator"
)

func groupNames(groups []validator.Group) map[string][]string {
	out := make(map[string][]string)
	for _, g := range groups {
		for _, v := range g.Validators {
			out[g.Name] = append(out[g.Name], v.Name())
		}
	}
	return out
}

func TestGroups_All(t *testing.T) {
	for _, sel := range [][]string{nil, {"all"}, {"puppet-lint", "all"}} {
		groups, err := validator.Groups(sel)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, validator.GroupSyntax, groups[0].Name)
		assert.Equal(t, validator.GroupStyle, groups[1].Name)
		assert.Equal(t, map[string][]string{
			validator.GroupSyntax: {"metadata-syntax", "puppet-syntax", "puppet-epp", "yaml-syntax"},
			validator.GroupStyle:  {"metadata-json-lint", "puppet-lint", "rubocop"},
		}, groupNames(groups))
	}
}

func TestSelectsAll(t *testing.T) {
	tests := []struct {
		names []string
		want  bool
	}{
		{nil, true},
		{[]string{""}, true},
		{[]string{"all"}, true},
		{[]string{"puppet-lint", "all"}, true},
		{[]string{"puppet-lint,all"}, true},
		{[]string{"puppet-lint"}, false},
		{[]string{"rubocop,puppet-syntax"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validator.SelectsAll(tt.names), "%v", tt.names)
	}
}

func TestGroups_Selection(t *testing.T) {
	groups, err := validator.Groups([]string{"rubocop,puppet-syntax"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		validator.GroupSyntax: {"puppet-syntax"},
		validator.GroupStyle:  {"rubocop"},
	}, groupNames(groups))

	groups, err = validator.Groups([]string{"puppet-lint"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, validator.GroupStyle, groups[0].Name)
}

func TestGroups_UnknownName(t *testing.T) {
	_, err := validator.Groups([]string{"puppet-syntax", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown validator "nope"`)
}

func TestGroups_FreshInstances(t *testing.T) {
	a, err := validator.Groups([]string{"puppet-syntax"})
	require.NoError(t, err)
	b, err := validator.Groups([]string{"puppet-syntax"})
	require.NoError(t, err)
	assert.NotSame(t, a[0].Validators[0], b[0].Validators[0])
}

func TestDescribe(t *testing.T) {
	descs := validator.Describe()
	require.Len(t, descs, len(validator.Names()))
	for i, d := range descs {
		assert.Equal(t, validator.Names()[i], d.Name)
		assert.NotEmpty(t, d.Description)
		assert.Contains(t, []string{validator.GroupSyntax, validator.GroupStyle}, d.Group)
	}
}
