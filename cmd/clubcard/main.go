// Command clubcard builds, publishes and queries clubcards.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/clubcard"
	"github.com/hupe1980/clubcard/blobstore"
	"github.com/hupe1980/clubcard/internal/config"
	"github.com/hupe1980/clubcard/keyset"
)

type card = clubcard.Clubcard[*keyset.Universe, keyset.Partition]

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	storeType  string
	storePath  string
	logLevel   string

	cfg     *config.Config
	logger  *clubcard.Logger
	store   blobstore.Store
	pointer blobstore.Pointer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "clubcard",
		Short: "Build and query clubcard membership filters",
		Long: `clubcard compresses a partitioned set of (block, key) items into a
two-stage ribbon filter that answers membership exactly for every item of
the universe.

Items are read as JSON lines:
  {"block": "issuer-a", "key": "0f3c...", "included": true}`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.storeType, "store", "", "Store type: local, memory, s3 or minio")
	rootCmd.PersistentFlags().StringVar(&a.storePath, "path", "", "Root directory of the local store")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newBuildCmd(a))
	rootCmd.AddCommand(newQueryCmd(a))
	rootCmd.AddCommand(newInspectCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.Type = a.storeType
	}
	if flags.Changed("path") {
		cfg.Store.Path = a.storePath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		a.logger = clubcard.NewLogger(slog.NewJSONHandler(cmd.ErrOrStderr(), opts))
	} else {
		a.logger = clubcard.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
	}

	a.store, a.pointer, err = openStore(cmd.Context(), cfg.Store)
	return err
}

// encodingOptions returns the artifact settings of the loaded config.
func (a *app) encodingOptions() ([]clubcard.EncodingOption, error) {
	compression, err := a.cfg.Compression()
	if err != nil {
		return nil, err
	}
	cd, err := a.cfg.Codec()
	if err != nil {
		return nil, err
	}
	return []clubcard.EncodingOption{
		clubcard.WithCompression(compression),
		clubcard.WithCodec(cd),
		clubcard.WithPublishLogger(a.logger),
	}, nil
}

// fetch loads blob name, or the current card when name is empty.
func (a *app) fetch(ctx context.Context, name string) (*card, string, error) {
	opts := []clubcard.EncodingOption{clubcard.WithPublishLogger(a.logger)}
	if name == "" {
		return clubcard.FetchCurrent[*keyset.Universe, keyset.Partition](ctx, a.store, a.pointer, opts...)
	}
	c, err := clubcard.Fetch[*keyset.Universe, keyset.Partition](ctx, a.store, name, opts...)
	return c, name, err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
