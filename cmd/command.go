package main

import (
	"fmt"

	"github.com/meghashyamc/filefind/services/search"
	"github.com/spf13/cobra"
)

func newTerminalCommand(a *app) *cobra.Command {
	var spec search.FilterSpec

	cmd := &cobra.Command{
		Use:   "command [path]",
		Short: "Print the find(1) command matching the name filters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.cfg.GetDefaultRoot()
			if len(args) == 1 {
				root = args[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), search.TerminalCommand(root, spec))
			return nil
		},
	}

	cmd.Flags().StringVarP(&spec.Name, "name", "n", "", "exact name or glob pattern")
	cmd.Flags().StringVarP(&spec.NameContains, "contains", "c", "", "name contains")
	cmd.Flags().StringVarP(&spec.Extension, "extension", "e", "", "file extension")

	return cmd
}
