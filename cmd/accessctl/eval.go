package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"workspace-access/internal/access"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errDenied makes the process exit with status 2 without printing an error.
var errDenied = errors.New("access denied")

// snapshotFile is the on-disk form of a user's session snapshot.
type snapshotFile struct {
	SelectedWorkspaceID string              `yaml:"selectedWorkspaceId"`
	Memberships         []access.Membership `yaml:"memberships"`
}

type evalOptions struct {
	snapshot    string
	workspace   string
	module      string
	modules     []string
	permission  string
	permissions []string
	requireAll  bool
	output      string
}

type evalResult struct {
	Requirement string `json:"requirement"`
	WorkspaceID string `json:"workspaceId"`
	access.Decision
	Message string `json:"message,omitempty"`
}

func newEvalCmd() *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a requirement against a membership snapshot",
		Long: `Evaluate a module/permission requirement against a snapshot file.

The snapshot is YAML with a selectedWorkspaceId and a list of memberships.
Exit status is 0 when access is granted and 2 when it is denied.

Examples:
  accessctl eval --snapshot me.yaml --module salesman --permission create_salesman
  accessctl eval --snapshot me.yaml --modules five,six --require-all
  accessctl eval --snapshot me.yaml --workspace 7 --permissions add_salesman -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := access.Spec{
				Module:     opts.module,
				Permission: opts.permission,
				RequireAll: opts.requireAll,
			}
			// A flag given with an empty value is an empty set, not an absent axis.
			if cmd.Flags().Changed("modules") {
				spec.Modules = append([]string{}, opts.modules...)
			}
			if cmd.Flags().Changed("permissions") {
				spec.Permissions = append([]string{}, opts.permissions...)
			}
			return runEval(cmd.OutOrStdout(), opts, spec)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.snapshot, "snapshot", "s", "", "snapshot YAML file")
	flags.StringVarP(&opts.workspace, "workspace", "w", "", "workspace to evaluate in (default: the snapshot's selection)")
	flags.StringVar(&opts.module, "module", "", "single required module")
	flags.StringSliceVar(&opts.modules, "modules", nil, "candidate modules")
	flags.StringVar(&opts.permission, "permission", "", "single required permission")
	flags.StringSliceVar(&opts.permissions, "permissions", nil, "candidate permissions")
	flags.BoolVar(&opts.requireAll, "require-all", false, "require every candidate instead of any")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func runEval(w io.Writer, opts *evalOptions, spec access.Spec) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	q, err := spec.Query()
	if err != nil {
		return err
	}

	snap, err := readSnapshot(opts.snapshot)
	if err != nil {
		return err
	}

	selected := snap.SelectedWorkspaceID
	if opts.workspace != "" {
		selected = opts.workspace
	}

	d := access.Evaluate(snap.Memberships, selected, q)
	result := evalResult{
		Requirement: q.String(),
		WorkspaceID: selected,
		Decision:    d,
		Message:     d.Message(),
	}

	if opts.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printDecision(w, result)
	}

	if !d.Granted {
		return errDenied
	}
	return nil
}

func printDecision(w io.Writer, r evalResult) {
	if r.Granted {
		fmt.Fprintf(w, "granted  %s in workspace %q\n", r.Requirement, r.WorkspaceID)
		return
	}
	fmt.Fprintf(w, "denied   %s in workspace %q\n", r.Requirement, r.WorkspaceID)
	fmt.Fprintf(w, "  module check failed:     %t\n", r.ModuleCheckFailed)
	fmt.Fprintf(w, "  permission check failed: %t\n", r.PermissionCheckFailed)
	fmt.Fprintf(w, "  %s\n", r.Message)
}

func readSnapshot(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap snapshotFile
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &snap, nil
}
