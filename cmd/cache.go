package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached directory enumerations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <path>",
		Short: "Delete the cached enumeration of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.searchService(cmd.Context())
			if err != nil {
				return err
			}
			if err := service.DeleteCache(args[0]); err != nil {
				return fmt.Errorf("failed to delete cache of %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted cache of %s\n", args[0])
			return nil
		},
	})

	return cmd
}
