package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/clubcard/blobstore"
)

func newListCmd(a *app) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published artifacts, marking the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			current, err := a.pointer.Current(ctx)
			if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
				return err
			}
			names, err := a.store.List(ctx, prefix)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				if name == blobstore.CurrentName {
					continue
				}
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only list names with this prefix")
	return cmd
}
