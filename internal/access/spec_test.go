package access

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_Query(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		expected Query
	}{
		{"empty", Spec{}, Query{}},
		{"single module", Spec{Module: "salesman"}, RequireModule("salesman")},
		{"single permission", Spec{Permission: "create_salesman"}, RequirePermission("create_salesman")},
		{"module any", Spec{Modules: []string{"a", "b"}}, Query{Module: AnyOf("a", "b")}},
		{"module all", Spec{Modules: []string{"a", "b"}, RequireAll: true}, Query{Module: AllOf("a", "b")}},
		{
			"require all applies to both lists",
			Spec{Modules: []string{"a"}, Permissions: []string{"x", "y"}, RequireAll: true},
			Query{Module: AllOf("a"), Permission: AllOf("x", "y")},
		},
		{
			"require all ignored for singles",
			Spec{Module: "a", Permission: "x", RequireAll: true},
			RequireModulePermission("a", "x"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.spec.Query()

			require.NoError(t, err)
			assert.Equal(t, tt.expected, q)
		})
	}
}

func TestSpec_QueryRejectsAmbiguousAxes(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"module and modules", Spec{Module: "a", Modules: []string{"b"}}},
		{"permission and permissions", Spec{Permission: "x", Permissions: []string{"y"}}},
		{"module and empty modules list", Spec{Module: "a", Modules: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Query()
			assert.ErrorIs(t, err, ErrAmbiguousRequirement)
		})
	}
}

func TestSpec_JSONEmptyListIsASet(t *testing.T) {
	var spec Spec
	require.NoError(t, json.Unmarshal([]byte(`{"modules":[]}`), &spec))

	q, err := spec.Query()
	require.NoError(t, err)

	assert.False(t, q.Module.IsNone())
	assert.False(t, Evaluate(salesSnapshot(), "7", q).Granted)
}

func TestSpecOf(t *testing.T) {
	queries := []Query{
		{},
		RequireModulePermission("salesman", "create_salesman"),
		{Module: AllOf("a", "b"), Permission: AllOf("x")},
		{Permission: AllOf("x", "y")},
		{Module: AnyOf("a"), Permission: Single("x")},
	}

	for _, q := range queries {
		t.Run(q.String(), func(t *testing.T) {
			back, err := SpecOf(q).Query()
			require.NoError(t, err)
			assert.Equal(t, q, back)
		})
	}
}

func TestRequirement_String(t *testing.T) {
	assert.Equal(t, "-", None().String())
	assert.Equal(t, "salesman", Single("salesman").String())
	assert.Equal(t, "all(a,b)", AllOf("a", "b").String())
	assert.Equal(t, "any(a)", AnyOf("a").String())
	assert.Equal(t, "module=salesman permission=-", RequireModule("salesman").String())
}

func TestSet_CopiesInput(t *testing.T) {
	names := []string{"a", "b"}
	r := AnyOf(names...)
	names[0] = "z"

	assert.Equal(t, []string{"a", "b"}, r.Names())
}
