package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"workspace-access/internal/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate module catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd(), newCatalogListCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file for bad names and duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d modules, %d permissions\n",
				len(c.AllModules()), len(c.AllPermissions()))
			return nil
		},
	}
}

func newCatalogListCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the modules and permissions of a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := catalog.Load(file)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODULE\tLABEL\tPERMISSIONS")
			for _, m := range c.Modules() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, m.Label, strings.Join(m.Permissions, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (default: built-in catalog)")

	return cmd
}
