package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/jury/internal/adapters/storage"
	app "github.com/okian/jury/internal/app"
	"github.com/okian/jury/internal/config"
	"github.com/okian/jury/internal/seeddata"
	"github.com/okian/jury/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		driver   = flag.String("driver", "", "Storage driver (overrides JURY_STORE_DRIVER)")
		path     = flag.String("path", "", "Storage location (overrides JURY_STORE_PATH)")
		projects = flag.Int("projects", seeddata.DefaultProjects, "Number of projects to generate")
		judges   = flag.Int("judges", seeddata.DefaultJudges, "Number of judges to generate")
		criteria = flag.Int("criteria", seeddata.DefaultCriteria, "Number of criteria taken from the catalog")
		coverage = flag.Float64("coverage", seeddata.DefaultCoverage, "Share of assigned projects each judge scores")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of concurrent score writers")
		seed     = flag.Uint64("seed", seeddata.DefaultSeed, "Generator seed")
		output   = flag.String("output", "", "Export the resulting snapshot to this file")
		verbose  = flag.Bool("verbose", false, "Log every submitted score")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeddata.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	} else if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	store := storage.Config{
		Driver: storage.Driver(cfg.StoreDriver),
		Path:   cfg.StorePath,
		DSN:    cfg.StoreDSN,
		S3: storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		},
	}
	if *driver != "" {
		store.Driver = storage.Driver(*driver)
	}
	if *path != "" {
		store.Path = *path
	}

	svc := app.New(
		app.WithLogger(logger.Get()),
		app.WithStorageConfig(store),
		app.WithCacheTTL(cfg.CacheTTL),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	_, err = seeddata.Run(ctx, svc, &seeddata.Config{
		Projects:   *projects,
		Judges:     *judges,
		Criteria:   *criteria,
		Coverage:   *coverage,
		Workers:    *workers,
		Seed:       *seed,
		OutputFile: *output,
		Verbose:    *verbose,
	}, log)
	if err != nil {
		log.Error(ctx, "seed run failed", logger.Error(err))
		svc.Stop()
		os.Exit(1)
	}
}
