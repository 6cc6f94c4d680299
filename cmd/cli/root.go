package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/SongScope/internal/config"
	"github.com/himanishpuri/SongScope/pkg/logger"
	"github.com/himanishpuri/SongScope/pkg/songscope"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath   string
	interactions string
	catalog      string
	snapshot     string
	modelDir     string
	jsonOutput   bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "songscope",
		Short:         "Explore listening histories and request song recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.WARN
			if opts.verbose {
				level = logger.DEBUG
			}
			logger.Configure(logger.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to YAML config file (default: $SONGSCOPE_CONFIG or ./config.yaml)")
	pf.StringVar(&opts.interactions, "interactions", "", "Interaction log CSV (path or s3://bucket/key)")
	pf.StringVar(&opts.catalog, "catalog", "", "Song catalog CSV (path or s3://bucket/key)")
	pf.StringVar(&opts.snapshot, "snapshot", "", "SQLite snapshot to load instead of the CSVs")
	pf.StringVar(&opts.modelDir, "model", "", "Model directory containing manifest.json")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(
		newUsersCmd(opts),
		newShowCmd(opts),
		newRecommendCmd(opts),
		newImportCmd(opts),
	)
	return rootCmd
}

// loadConfig reads the layered config and applies the persistent flags.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("interactions") {
		cfg.Data.Interactions = o.interactions
	}
	if flags.Changed("catalog") {
		cfg.Data.Catalog = o.catalog
	}
	if flags.Changed("snapshot") {
		cfg.Data.Snapshot = o.snapshot
	}
	if flags.Changed("model") {
		cfg.Model.Dir = o.modelDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createService builds the service described by the config and flags.
func (o *globalOptions) createService(cmd *cobra.Command) (songscope.Service, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	svcOpts := []songscope.Option{
		songscope.WithModelDir(cfg.Model.Dir),
		songscope.WithS3Config(cfg.S3),
		songscope.WithModelHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
	}
	if cfg.Data.Snapshot != "" {
		svcOpts = append(svcOpts, songscope.WithSnapshot(cfg.Data.Snapshot))
	} else {
		svcOpts = append(svcOpts,
			songscope.WithInteractionsPath(cfg.Data.Interactions),
			songscope.WithCatalogPath(cfg.Data.Catalog),
		)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := songscope.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
