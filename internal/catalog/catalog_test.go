package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_IsValid(t *testing.T) {
	c, err := New(Builtin())
	require.NoError(t, err)

	assert.Equal(t, []string{CreateAccountID, AccountBalanceID}, c.IDs())
	assert.Equal(t, 2, c.Len())
}

func TestBuiltin_PlaceholdersHavePathParameters(t *testing.T) {
	c := MustNew(Builtin())
	for _, e := range c.Endpoints() {
		for _, name := range Placeholders(e.Path) {
			p, ok := e.Parameter(name)
			require.Truef(t, ok, "%s: placeholder {%s} undeclared", e.ID, name)
			assert.Equal(t, InPath, p.Location)
		}
	}
}

func TestNew_RejectsPlaceholderWithoutPathParameter(t *testing.T) {
	tests := []struct {
		name   string
		params []ParameterSpec
	}{
		{"missing", nil},
		{"wrong location", []ParameterSpec{{Name: "accountReference", Location: InQuery}}},
		{"other name", []ParameterSpec{{Name: "account", Location: InPath}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]EndpointSpec{{
				ID:         "balance",
				Method:     MethodGet,
				Path:       "/balance/{accountReference}",
				Parameters: tt.params,
			}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "{accountReference}")
		})
	}
}

func TestNew_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		specs []EndpointSpec
		want  string
	}{
		{"empty id", []EndpointSpec{{Method: MethodGet, Path: "/a"}}, "empty id"},
		{"bad method", []EndpointSpec{{ID: "a", Method: "HEAD", Path: "/a"}}, "unsupported method"},
		{"relative path", []EndpointSpec{{ID: "a", Method: MethodGet, Path: "a"}}, "must start with /"},
		{"duplicate id", []EndpointSpec{
			{ID: "a", Method: MethodGet, Path: "/a"},
			{ID: "a", Method: MethodPost, Path: "/a"},
		}, "duplicate id"},
		{"duplicate parameter", []EndpointSpec{{ID: "a", Method: MethodGet, Path: "/a", Parameters: []ParameterSpec{
			{Name: "x", Location: InQuery}, {Name: "x", Location: InHeader},
		}}}, "duplicate parameter"},
		{"bad location", []EndpointSpec{{ID: "a", Method: MethodGet, Path: "/a", Parameters: []ParameterSpec{
			{Name: "x", Location: "cookie"},
		}}}, "unsupported location"},
		{"bad pattern", []EndpointSpec{{ID: "a", Method: MethodGet, Path: "/a/{x}", Parameters: []ParameterSpec{
			{Name: "x", Location: InPath, Pattern: "[unclosed"},
		}}}, "invalid pattern"},
		{"duplicate operation id", []EndpointSpec{
			{ID: "a", Method: MethodGet, Path: "/a", OperationID: "op"},
			{ID: "b", Method: MethodGet, Path: "/b", OperationID: "op"},
		}, `operation id "op" already used by "a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.specs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_NormalizesEntries(t *testing.T) {
	c, err := New([]EndpointSpec{{
		ID:     "ping",
		Method: "get",
		Path:   "/ping",
		Tags:   []string{"", ""},
		Parameters: []ParameterSpec{
			{Name: "verbose", Location: InQuery},
		},
	}})
	require.NoError(t, err)

	e, ok := c.Lookup("ping")
	require.True(t, ok)
	assert.Equal(t, MethodGet, e.Method)
	assert.Equal(t, []string{UntaggedTag}, e.Tags)
	assert.Equal(t, "string", e.Parameters[0].Type)
	assert.Equal(t, []string{"ping"}, c.ListByTag("UNTAGGED"))
}

func TestNew_PathParametersAreRequired(t *testing.T) {
	c, err := New([]EndpointSpec{{
		ID:     "get_a",
		Method: "GET",
		Path:   "/a/{id}",
		Parameters: []ParameterSpec{
			{Name: "id", Location: InPath, Required: false},
		},
	}})
	require.NoError(t, err)

	e, _ := c.Lookup("get_a")
	assert.True(t, e.Parameters[0].Required)
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	specs := Builtin()
	c := MustNew(specs)

	specs[1].Parameters[0].Name = "mutated"
	specs[1].Tags[0] = "mutated"

	e, _ := c.Lookup(AccountBalanceID)
	assert.Equal(t, "accountReference", e.Parameters[0].Name)
	assert.Equal(t, "AccountManagement", e.Tags[0])
}

func TestIndexes(t *testing.T) {
	c := MustNew(append(Builtin(), EndpointSpec{
		ID:          "get_loan",
		Method:      MethodGet,
		Path:        "/loans/{id}",
		Tags:        []string{"Loans", "AccountManagement"},
		OperationID: "getLoan",
		Parameters:  []ParameterSpec{{Name: "id", Location: InPath, Required: true}},
	}))

	e, ok := c.LookupByOperationID("CBPETGetAccountBalanceUsingGET")
	require.True(t, ok)
	assert.Equal(t, AccountBalanceID, e.ID)

	_, ok = c.LookupByOperationID("cbpetgetaccountbalanceusingget")
	assert.False(t, ok, "operation ids are exact")

	_, ok = c.Lookup("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{CreateAccountID, AccountBalanceID, "get_loan"}, c.ListByTag("accountmanagement"))
	assert.Equal(t, []string{"get_loan"}, c.ListByTag("LOANS"))
	assert.Empty(t, c.ListByTag("cards"))
	assert.Equal(t, []string{"accountmanagement", "loans"}, c.AllTags())
}

func TestMatchPattern(t *testing.T) {
	c := MustNew([]EndpointSpec{{
		ID:     "a",
		Method: MethodGet,
		Path:   "/a/{ref}/{code}",
		Parameters: []ParameterSpec{
			{Name: "ref", Location: InPath, Pattern: "[0-9]+"},
			{Name: "code", Location: InPath, Pattern: "^[A-Z]{3}$"},
		},
	}})
	e, _ := c.Lookup("a")
	ref, code := &e.Parameters[0], &e.Parameters[1]

	assert.True(t, ref.MatchPattern("123"))
	assert.True(t, ref.MatchPattern("123abc"), "match is anchored at the start only")
	assert.False(t, ref.MatchPattern("abc123"))
	assert.True(t, code.MatchPattern("INR"))
	assert.False(t, code.MatchPattern("INRX"))

	free := ParameterSpec{Name: "free"}
	assert.True(t, free.MatchPattern("anything"))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Placeholders("/x/{a}/y/{b}"))
	assert.Empty(t, Placeholders("/x/y"))
}
