package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/clubcard"
	"github.com/hupe1980/clubcard/keyset"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		input    string
		name     string
		current  bool
		randSeed uint64
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a clubcard from JSON-lines items and publish it",
		Long: `Build reads (block, key, included) records, builds a clubcard over
them and publishes the encoded artifact to the configured store.

With --current the store's pointer is advanced to the new artifact once
it is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("seed") {
				a.cfg.Build.RandSeed = &randSeed
			}
			return runBuild(cmd, a, input, name, current)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON-lines input file (- for stdin)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Artifact name (default: timestamped)")
	cmd.Flags().BoolVar(&current, "current", false, "Advance the current pointer after publishing")
	cmd.Flags().Uint64Var(&randSeed, "seed", 0, "Seed for reproducible solutions")
	return cmd
}

func runBuild(cmd *cobra.Command, a *app, input, name string, current bool) error {
	ctx := cmd.Context()

	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	records, err := keyset.ReadRecords(r)
	if err != nil {
		return err
	}
	hasher, err := keyset.NewHasher([]byte(a.cfg.Build.HashSeed), a.cfg.Build.Width)
	if err != nil {
		return err
	}
	set, err := hasher.NewSet(records)
	if err != nil {
		return err
	}

	metrics := &clubcard.BasicMetricsCollector{}
	opts := []clubcard.Option{
		clubcard.WithLogger(a.logger),
		clubcard.WithMetricsCollector(metrics),
	}
	if seed := a.cfg.Build.RandSeed; seed != nil {
		opts = append(opts, clubcard.WithSeed(*seed))
	}

	c, err := clubcard.BuildFromItems(ctx, set.Items, set.Universe, set.Partition, opts...)
	if err != nil {
		return err
	}
	if a.cfg.Build.Verify {
		if err := clubcard.Verify(ctx, c, set.Items); err != nil {
			return err
		}
	}

	encOpts, err := a.encodingOptions()
	if err != nil {
		return err
	}
	if name == "" {
		name = "clubcard-" + time.Now().UTC().Format("20060102T150405Z") + ".club"
	}
	if current {
		err = clubcard.PublishCurrent(ctx, a.store, a.pointer, name, c, encOpts...)
	} else {
		err = clubcard.Publish(ctx, a.store, name, c, encOpts...)
	}
	if err != nil {
		return err
	}

	stats := c.Stats()
	build := metrics.GetStats()
	fmt.Fprintf(cmd.OutOrStdout(), "published %s: %d items, %d blocks, %d bits (%.3f bits/item), built in %s\n",
		name, len(set.Items), stats.Blocks, stats.TotalBits(),
		float64(stats.TotalBits())/float64(max(len(set.Items), 1)),
		time.Duration(build.BuildAvgNanos))
	return nil
}
