package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/clubcard"
	"github.com/hupe1980/clubcard/keyset"
)

func newQueryCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "query BLOCK KEY [KEY...]",
		Short: "Look up keys of a block in a published clubcard",
		Long: `Query prints one line per key: block, key and the answer
("member", "nonmember" or "no data").

Keys outside the universe the card was built over get an arbitrary answer;
they are flagged with "(outside universe)".`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.fetch(cmd.Context(), name)
			if err != nil {
				return err
			}
			partition := c.Partition()
			hasher, err := keyset.NewHasher(partition.Seed, partition.Width)
			if err != nil {
				return err
			}

			block := args[0]
			out := cmd.OutOrStdout()
			for _, key := range args[1:] {
				item := hasher.NewItem([]byte(block), []byte(key), false)
				answer := c.Lookup(item)
				suffix := ""
				if answer != clubcard.NoData && !c.Universe().Covers(item) {
					suffix = " (outside universe)"
				}
				fmt.Fprintf(out, "%s\t%s\t%s%s\n", block, key, answer, suffix)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Artifact name (default: current)")
	return cmd
}
