package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"seeder/internal/config"
	"seeder/internal/dataset"
	"seeder/internal/dataset/kaggle"
	"seeder/internal/httpds"
	"seeder/internal/metrics"
	"seeder/internal/metrics/datadog"
	"seeder/internal/metrics/prompush"
	"seeder/internal/records"
	"seeder/internal/seed"
	"seeder/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "seeder/internal/storage/all"
)

// main is the entry point for the seeder binary. It loads config from the
// environment, optionally initializes a metrics backend, downloads the
// dataset, and executes one seeding run against the configured store.
func main() {
	var (
		customersFlg      int
		employeesFlg      int
		salesFlg          int
		rngSeedFlg        uint64
		skipDownload      bool
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
		validate          bool
	)

	flag.IntVar(&customersFlg, "customers", -1, "synthetic customer count (overrides env SEED_CUSTOMERS)")
	flag.IntVar(&employeesFlg, "employees", -1, "synthetic employee count (overrides env SEED_EMPLOYEES)")
	flag.IntVar(&salesFlg, "sales", -1, "synthetic sale count (overrides env SEED_SALES)")
	flag.Uint64Var(&rngSeedFlg, "seed", 0, "RNG seed for reproducible runs (0 = time-seeded)")
	flag.BoolVar(&skipDownload, "skip-download", false, "skip the Kaggle download and use files already in the dataset dir")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD address (overrides env DOGSTATSD_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	cfg := config.FromEnv()
	if customersFlg >= 0 {
		cfg.Customers = customersFlg
	}
	if employeesFlg >= 0 {
		cfg.Employees = employeesFlg
	}
	if salesFlg >= 0 {
		cfg.Sales = salesFlg
	}

	issues := cfg.Validate()
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Field, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Println("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Println("configuration is valid")
		os.Exit(0)
	}

	setupMetrics(metricsBackendFlg, pushGatewayURLFlg, dogstatsdAddrFlg, *verbose)

	err := run(context.Background(), cfg, runOptions{
		skipDownload: skipDownload,
		rngSeed:      rngSeedFlg,
		verbose:      *verbose,
	})
	os.Exit(finish(err))
}

// runOptions carries the flag-only knobs into run.
type runOptions struct {
	skipDownload bool
	rngSeed      uint64
	verbose      bool
}

// run executes one seeding run end to end.
func run(ctx context.Context, cfg config.Config, ro runOptions) error {
	start := time.Now()

	rows, err := loadDataset(ctx, cfg, ro.skipDownload)
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, storage.Config{
		Kind:       cfg.Backend,
		BaseURL:    cfg.SupabaseURL,
		ServiceKey: cfg.ServiceRoleKey,
		DSN:        cfg.DatabaseDSN,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer store.Close()

	opts := seed.Options{
		AdminUserID: cfg.AdminUserID,
		Customers:   cfg.Customers,
		Employees:   cfg.Employees,
		Sales:       cfg.Sales,
	}
	if ro.rngSeed != 0 {
		opts.Rand = rand.New(rand.NewPCG(ro.rngSeed, ro.rngSeed>>1))
	}

	if ro.verbose {
		log.Printf("run: backend=%s dataset=%s rows=%d customers=%d employees=%d sales=%d",
			cfg.Backend, cfg.DatasetRef, len(rows), cfg.Customers, cfg.Employees, cfg.Sales)
	}

	if err := seed.New(store, opts).Run(ctx, rows); err != nil {
		return err
	}

	log.Printf("seeding completed in %s", time.Since(start).Truncate(time.Millisecond))
	return nil
}

// finish flushes metrics and converts the run error into an exit code.
// Flushing must happen before exiting on failure too; log.Fatalf here would
// skip it and drop exactly the failure-status metrics the run just recorded.
func finish(runErr error) int {
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}
	if runErr != nil {
		log.Printf("seeding failed: %v", runErr)
		return 1
	}
	return 0
}

// loadDataset downloads and parses the Kaggle dataset. A failed download or an
// unusable staging dir degrades to an empty row set: the run continues with
// synthetic data only, matching the pipeline's tolerance for a missing source.
func loadDataset(ctx context.Context, cfg config.Config, skipDownload bool) ([]records.Record, error) {
	if !skipDownload {
		client, err := kaggle.NewClient(kaggle.Config{
			HTTP:     httpds.NewClient(httpds.Config{Timeout: 2 * time.Minute}),
			Username: cfg.KaggleUsername,
			Key:      cfg.KaggleKey,
		})
		if err != nil {
			return nil, fmt.Errorf("kaggle: %w", err)
		}
		if err := client.Download(ctx, cfg.DatasetRef, cfg.DataDir); err != nil {
			log.Printf("kaggle: download failed, continuing without dataset: %v", err)
		}
	}

	rows, err := dataset.LoadDir(cfg.DataDir)
	if err != nil {
		log.Printf("dataset: no usable CSV in %s, continuing without dataset: %v", cfg.DataDir, err)
		return nil, nil
	}
	log.Printf("dataset: parsed %d rows", len(rows))
	return rows, nil
}

// setupMetrics installs the selected metrics backend. Resolution order for
// the backend and its endpoint is flag, then env, then default; on any init
// failure the nop backend stays in place and the run proceeds.
func setupMetrics(backendFlg, gatewayFlg, dogstatsdFlg string, verbose bool) {
	backendName := backendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "pushgateway":
		gwURL := gatewayFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("seeder", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s url=%s", backendName, gwURL)
		metrics.SetBackend(b)

	case "datadog":
		addr := dogstatsdFlg
		if addr == "" {
			addr = os.Getenv("DOGSTATSD_ADDR")
		}
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "seeder."})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s addr=%s", backendName, addr)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}
