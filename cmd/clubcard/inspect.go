package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		name   string
		blocks bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the statistics of a published clubcard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, resolved, err := a.fetch(cmd.Context(), name)
			if err != nil {
				return err
			}

			stats := c.Stats()
			partition := c.Partition()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:        %s\n", resolved)
			fmt.Fprintf(out, "hash seed:   %q (width %d)\n", partition.Seed, partition.Width)
			fmt.Fprintf(out, "blocks:      %d (%d inverted)\n", stats.Blocks, stats.Inverted)
			fmt.Fprintf(out, "approximate: %d bits in %d columns\n", stats.ApproxBits, stats.ApproxCols)
			fmt.Fprintf(out, "exact:       %d bits\n", stats.ExactBits)
			fmt.Fprintf(out, "exceptions:  %d\n", stats.Exceptions)
			fmt.Fprintf(out, "total:       %d bits\n", stats.TotalBits())

			if !blocks {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\nBLOCK\tITEMS\tMEMBERS\tRANK\tEXACT M\tINVERTED\tEXCEPTIONS")
			for _, info := range partition.Blocks {
				e, ok := c.Entry([]byte(info.ID))
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%t\t%d\n",
					info.ID, info.Items, info.Members, e.ApproxRank, e.ExactM, e.Inverted, len(e.Exceptions)+len(e.ApproxExceptions))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Artifact name (default: current)")
	cmd.Flags().BoolVar(&blocks, "blocks", false, "Print one line per block")
	return cmd
}
