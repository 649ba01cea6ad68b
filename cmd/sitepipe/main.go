package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/fernwehlabs/sitepipe/internal/buildlog"
	"github.com/fernwehlabs/sitepipe/internal/config"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/metrics"
	"github.com/fernwehlabs/sitepipe/internal/notify"
	"github.com/fernwehlabs/sitepipe/internal/pipeline"
	"github.com/fernwehlabs/sitepipe/internal/server"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
	"github.com/fernwehlabs/sitepipe/internal/version"
	"github.com/fernwehlabs/sitepipe/internal/watch"
)

const defaultConfigPath = "sitepipe.yaml"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"sitepipe.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Export string `short:"o" help:"Write the built dataset as JSON to this path"`
	} `cmd:"" help:"Build the site dataset once"`

	Validate struct{} `cmd:"" help:"Build the dataset and print the report without writing anything"`

	Serve struct{} `cmd:"" help:"Serve the dataset over HTTP, rebuilding on content changes"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	kctx := kong.Parse(&CLI)

	if kctx.Command() == "version" {
		fmt.Printf("sitepipe %s (commit %s, built %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	log := cfg.Logging.NewLogger(CLI.Verbose)
	slog.SetDefault(log)

	switch kctx.Command() {
	case "build":
		if err := runBuild(cfg, log, CLI.Build.Export); err != nil {
			log.Error("build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "validate":
		if err := runValidate(cfg, log); err != nil {
			os.Exit(1)
		}
	case "serve":
		if err := runServe(cfg, log); err != nil {
			log.Error("serve failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

// loadConfig falls back to defaults when the default config file is absent,
// so a bare content tree works with zero setup. An explicitly given path
// must exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(CLI.Config); os.IsNotExist(err) && CLI.Config == defaultConfigPath {
		return config.Default(), nil
	}
	return config.Load(CLI.Config)
}

func runBuild(cfg *config.Config, log *slog.Logger, export string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	site, report, err := pipeline.New(cfg, nil, nil, log).Run(ctx)
	if err != nil {
		return err
	}

	if export != "" {
		if err := exportDataset(site, export); err != nil {
			return err
		}
		log.Info("dataset exported", logfields.Path(export))
	}
	if report.Outcome == pipeline.OutcomeWarning {
		log.Warn("build finished with warnings", logfields.Count(len(report.Warnings)))
	}
	return nil
}

func exportDataset(site *sitemodel.SiteData, path string) error {
	data, err := json.MarshalIndent(site, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

func runValidate(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, report, err := pipeline.New(cfg, nil, nil, log).Run(ctx)
	printReport(report)
	return err
}

func printReport(r *pipeline.BuildReport) {
	fmt.Printf("build %s: %s in %s\n",
		r.BuildID, r.Outcome, r.Duration().Round(time.Millisecond))
	fmt.Printf("  posts: %d  collections: %d  authors: %d  tags: %d\n",
		r.Posts, r.Collections, r.Authors, r.Tags)
	for _, w := range r.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, e := range r.Errors {
		fmt.Printf("  error: %s\n", e)
	}
}

func runServe(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)

	var journal *buildlog.Journal
	if cfg.History.Enabled {
		var err error
		journal, err = buildlog.Open(cfg.History.DBPath)
		if err != nil {
			return fmt.Errorf("open build journal: %w", err)
		}
		defer func() { _ = journal.Close() }()
	}

	// A nil publisher is valid and publishes nothing, so a NATS outage
	// degrades serve mode instead of killing it.
	var publisher *notify.Publisher
	if cfg.Notify.Enabled {
		p, err := notify.NewPublisher(&cfg.Notify, log)
		if err != nil {
			log.Warn("continuing without build notifications", logfields.Error(err))
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	srv := server.New(cfg, recorder, journal, log)
	pipe := pipeline.New(cfg, nil, recorder, log)

	rebuild := func(ctx context.Context) {
		publisher.BuildStarted()
		site, report, err := pipe.Run(ctx)
		publisher.BuildFinished(report)
		if journal != nil {
			if jerr := journal.Record(ctx, buildlog.FromReport(report)); jerr != nil {
				log.Warn("record build journal entry", logfields.Error(jerr))
			}
		}
		if err != nil {
			// Keep serving the last good dataset.
			return
		}
		srv.SetSite(site)
	}

	rebuild(ctx)
	if srv.Site() == nil {
		log.Warn("initial build failed, serving once a rebuild succeeds")
	}

	if cfg.Watch.Enabled {
		roots := []string{
			cfg.Content.PostsDir,
			cfg.Content.CollectionsDir,
			cfg.Content.DataDir,
		}
		w := watch.New(cfg.Watch, roots, rebuild, log)
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error("watcher stopped", logfields.Error(err))
			}
		}()
	}

	return srv.Start(ctx)
}
