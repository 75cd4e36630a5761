package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshot = `selectedWorkspaceId: "7"
memberships:
  - workspaceId: "7"
    role: staff
    modules: [salesman, five]
    permissions: [add_salesman, update_salesman]
  - workspaceId: "9"
    role: owner
    modules: [customer]
    permissions: [create_customer]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	snapshot := writeFile(t, "snapshot.yaml", testSnapshot)

	tests := []struct {
		name    string
		args    []string
		granted bool
	}{
		{"open requirement", nil, true},
		{"granted module", []string{"--module", "salesman"}, true},
		{"module and permission", []string{"--module", "salesman", "--permission", "add_salesman"}, true},
		{"missing permission", []string{"--module", "salesman", "--permission", "delete_salesman"}, false},
		{"any of modules", []string{"--modules", "five,six"}, true},
		{"all of modules", []string{"--modules", "five,six", "--require-all"}, false},
		{"empty any-of set", []string{"--modules="}, false},
		{"other workspace", []string{"--workspace", "9", "--module", "customer"}, true},
		{"unknown workspace", []string{"--workspace", "404", "--module", "salesman"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(append([]string{"eval", "--snapshot", snapshot}, tt.args...)...)

			if tt.granted {
				require.NoError(t, err)
				assert.Contains(t, out, "granted")
			} else {
				assert.ErrorIs(t, err, errDenied)
				assert.Contains(t, out, "denied")
			}
		})
	}
}

func TestEval_JSONOutput(t *testing.T) {
	snapshot := writeFile(t, "snapshot.yaml", testSnapshot)

	out, err := execute("eval", "-s", snapshot, "--module", "karigar", "--permission", "delete_salesman", "-o", "json")
	assert.ErrorIs(t, err, errDenied)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, false, result["granted"])
	assert.Equal(t, true, result["moduleCheckFailed"])
	assert.Equal(t, true, result["permissionCheckFailed"])
	assert.Equal(t, "7", result["workspaceId"])
	assert.NotEmpty(t, result["message"])
}

func TestEval_Errors(t *testing.T) {
	snapshot := writeFile(t, "snapshot.yaml", testSnapshot)

	tests := []struct {
		name string
		args []string
	}{
		{"missing snapshot flag", []string{"eval", "--module", "salesman"}},
		{"snapshot not found", []string{"eval", "-s", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"ambiguous module axis", []string{"eval", "-s", snapshot, "--module", "a", "--modules", "b"}},
		{"bad output format", []string{"eval", "-s", snapshot, "-o", "xml"}},
		{"malformed snapshot", []string{"eval", "-s", writeFile(t, "bad.yaml", "memberships: [")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(tt.args...)
			require.Error(t, err)
			assert.NotErrorIs(t, err, errDenied)
		})
	}
}

func TestCatalogValidate(t *testing.T) {
	valid := writeFile(t, "catalog.yaml", "modules:\n  - name: five\n    permissions: [view_five, edit_five]\n")
	invalid := writeFile(t, "dup.yaml", "modules:\n  - name: five\n  - name: five\n")

	out, err := execute("catalog", "validate", valid)
	require.NoError(t, err)
	assert.Equal(t, "ok: 1 modules, 2 permissions\n", out)

	_, err = execute("catalog", "validate", invalid)
	assert.Error(t, err)

	_, err = execute("catalog", "validate")
	assert.Error(t, err)
}

func TestCatalogList(t *testing.T) {
	out, err := execute("catalog", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "MODULE")
	assert.Contains(t, out, "salesman")
	assert.Contains(t, out, "create_salesman")
}
