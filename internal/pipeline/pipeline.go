// Package pipeline orchestrates a dataset build: reference data, author
// enrichment, collections, posts, cross-linking, assembled into one
// SiteData. Stages run strictly in sequence; a build either completes or
// produces nothing.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fernwehlabs/sitepipe/internal/authors"
	"github.com/fernwehlabs/sitepipe/internal/collections"
	"github.com/fernwehlabs/sitepipe/internal/config"
	"github.com/fernwehlabs/sitepipe/internal/gitmeta"
	"github.com/fernwehlabs/sitepipe/internal/images"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/markdown"
	"github.com/fernwehlabs/sitepipe/internal/metrics"
	"github.com/fernwehlabs/sitepipe/internal/posts"
	"github.com/fernwehlabs/sitepipe/internal/refdata"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

// Pipeline builds site datasets from a configured content tree.
type Pipeline struct {
	cfg      *config.Config
	sizer    images.Sizer
	renderer *markdown.Renderer
	recorder metrics.Recorder
	log      *slog.Logger
}

func New(cfg *config.Config, sizer images.Sizer, recorder metrics.Recorder, log *slog.Logger) *Pipeline {
	if sizer == nil {
		sizer = images.FileSizer{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		sizer:    sizer,
		renderer: markdown.NewRenderer(),
		recorder: recorder,
		log:      log,
	}
}

// Run executes one full build. The report is always returned; the dataset
// only on success.
func (p *Pipeline) Run(ctx context.Context) (*sitemodel.SiteData, *BuildReport, error) {
	buildID := uuid.NewString()
	report := newBuildReport(buildID)
	log := slog.New(collectWarnings(p.log.Handler(), report)).With(logfields.BuildID(buildID))

	bs := &BuildState{BuildID: buildID, Report: report, log: log}
	if repo, err := gitmeta.Open(p.cfg.Content.PostsDir); err == nil {
		bs.Repo = repo
	} else {
		log.Debug("building without git metadata", logfields.Error(err))
	}

	log.Info("build started")
	start := time.Now()
	err := runStages(ctx, bs, p.recorder, []namedStage{
		{"load_refdata", p.stageLoadRefdata},
		{"enrich_authors", p.stageEnrichAuthors},
		{"build_collections", p.stageBuildCollections},
		{"build_posts", p.stageBuildPosts},
		{"crosslink", p.stageCrosslink},
		{"assemble", p.stageAssemble},
	})
	report.Finalize()
	p.recorder.ObserveBuildDuration(time.Since(start))
	p.recorder.IncBuildOutcome(string(report.Outcome))

	if err != nil {
		log.Error("build failed", logfields.Error(err))
		return nil, report, err
	}

	p.recorder.SetDatasetSize(report.Posts, report.Collections, report.Authors, report.Tags)
	log.Info("build finished", report.LogAttrs()...)
	return bs.Site, report, nil
}

func (p *Pipeline) stageLoadRefdata(ctx context.Context, bs *BuildState) error {
	ref, err := refdata.NewLoader(p.cfg.Content.DataDir, p.renderer, bs.log).Load(ctx)
	if err != nil {
		return err
	}
	bs.Ref = ref
	return nil
}

func (p *Pipeline) stageEnrichAuthors(_ context.Context, bs *BuildState) error {
	recs, err := authors.NewEnricher(p.cfg.Content.DataDir, p.sizer, bs.log).
		EnrichAll(bs.Ref.Authors, bs.Ref)
	if err != nil {
		return err
	}
	bs.Authors = recs
	bs.Idx = authors.NewIndex(recs)
	return nil
}

func (p *Pipeline) stageBuildCollections(ctx context.Context, bs *BuildState) error {
	b := collections.NewBuilder(
		p.cfg.Content.CollectionsDir,
		p.cfg.Content.PublicDir,
		p.cfg.Content.DefaultLocale,
		p.sizer, bs.log)
	shells, err := b.Build(ctx, bs.Idx, bs.Ref.StaticCollections)
	if err != nil {
		return err
	}
	bs.Shells = shells
	return nil
}

func (p *Pipeline) stageBuildPosts(ctx context.Context, bs *BuildState) error {
	var modtime posts.ModTimer
	if bs.Repo != nil {
		modtime = bs.Repo
	}
	b := posts.NewBuilder(
		p.cfg.Content.PostsDir,
		p.cfg.Content.DefaultLocale,
		p.cfg.Content.PageSize,
		modtime, bs.log)
	recs, err := b.Build(ctx, bs.Idx, bs.Ref, bs.Ref.Tags, bs.Shells)
	if err != nil {
		return err
	}
	bs.Posts = recs
	return nil
}

func (p *Pipeline) stageCrosslink(_ context.Context, bs *BuildState) error {
	bs.Linked = crosslink(bs.Shells, bs.Posts)
	return nil
}

func (p *Pipeline) stageAssemble(_ context.Context, bs *BuildState) error {
	site := &sitemodel.SiteData{
		BuildID:     bs.BuildID,
		BuiltAt:     time.Now().UTC(),
		Title:       p.cfg.Site.Title,
		About:       bs.Ref.About,
		Unicorns:    bs.Ref.Authors,
		Roles:       bs.Ref.Roles,
		Licenses:    bs.Ref.Licenses,
		Authors:     bs.Authors,
		Tags:        bs.Ref.Tags,
		Collections: bs.Linked,
		Posts:       bs.Posts,
	}
	if bs.Repo != nil {
		if rev, err := bs.Repo.Revision(); err == nil {
			site.Revision = rev
		} else {
			bs.log.Warn("git revision unavailable", logfields.Error(err))
		}
	}
	bs.Site = site

	bs.Report.Posts = len(site.Posts)
	bs.Report.Collections = len(site.Collections)
	bs.Report.Authors = len(site.Authors)
	bs.Report.Tags = len(site.Tags)
	return nil
}
