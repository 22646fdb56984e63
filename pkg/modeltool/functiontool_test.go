package modeltool_test

import (
	"reflect"
	"testing"

	"github.com/relforge/genmodel/pkg/modeltool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupArgs struct {
	BugID int    `json:"bug_id" jsonschema:"description=The bug to look up"`
	Field string `json:"field,omitempty"`
}

func Test_FunctionTool(t *testing.T) {
	tool, err := modeltool.FunctionTool("lookup_bug", "Look up a bug by ID", reflect.TypeOf(lookupArgs{}))
	require.NoError(t, err)

	assert.Equal(t, "function", tool.Type)
	require.NotNil(t, tool.Function)
	assert.Equal(t, "lookup_bug", tool.Function.Name)
	assert.Equal(t, "Look up a bug by ID", tool.Function.Description)

	require.NotNil(t, tool.Function.Parameters)
	assert.Equal(t, "object", tool.Function.Parameters.Type)
	assert.Equal(t, []string{"bug_id"}, tool.Function.Parameters.Required)

	prop, ok := tool.Function.Parameters.Properties.Get("bug_id")
	require.True(t, ok)
	assert.Equal(t, "integer", prop.Type)
}
