package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/himanishpuri/SongScope/internal/config"
	"github.com/himanishpuri/SongScope/internal/metrics"
	"github.com/himanishpuri/SongScope/pkg/logger"
	"github.com/himanishpuri/SongScope/pkg/songscope"
)

var (
	configPath     string
	port           int
	interactions   string
	catalog        string
	snapshot       string
	modelDir       string
	allowedOrigins string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (default: $SONGSCOPE_CONFIG or ./config.yaml)")
	flag.IntVar(&port, "port", 0, "HTTP server port")
	flag.StringVar(&interactions, "interactions", "", "Interaction log CSV (path or s3://bucket/key)")
	flag.StringVar(&catalog, "catalog", "", "Song catalog CSV (path or s3://bucket/key)")
	flag.StringVar(&snapshot, "snapshot", "", "SQLite snapshot to load instead of the CSVs")
	flag.StringVar(&modelDir, "model", "", "Model directory containing manifest.json")
	flag.StringVar(&allowedOrigins, "origins", "", "Comma-separated list of allowed CORS origins (use * for all)")
}

// applyFlags overrides cfg with the flags that were set on the command line.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = port
		case "interactions":
			cfg.Data.Interactions = interactions
		case "catalog":
			cfg.Data.Catalog = catalog
		case "snapshot":
			cfg.Data.Snapshot = snapshot
		case "model":
			cfg.Model.Dir = modelDir
		case "origins":
			origins := strings.Split(allowedOrigins, ",")
			for i := range origins {
				origins[i] = strings.TrimSpace(origins[i])
			}
			cfg.Server.AllowedOrigins = origins
		}
	})
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.Configure(cfg.LoggerConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []songscope.Option{
		songscope.WithModelDir(cfg.Model.Dir),
		songscope.WithS3Config(cfg.S3),
		songscope.WithModelHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
	}
	if cfg.Data.Snapshot != "" {
		opts = append(opts, songscope.WithSnapshot(cfg.Data.Snapshot))
	} else {
		opts = append(opts,
			songscope.WithInteractionsPath(cfg.Data.Interactions),
			songscope.WithCatalogPath(cfg.Data.Catalog),
		)
	}

	service, err := songscope.NewService(ctx, opts...)
	if err != nil {
		logger.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	st := service.Stats()
	metrics.SetLoadedRows(st.Interactions, st.Songs)

	server := NewServer(service, &ServerConfig{
		Addr:           cfg.Addr(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
	})
	if err := server.Start(ctx); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
