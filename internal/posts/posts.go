// Package posts builds enriched post records from the posts content root.
package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fernwehlabs/sitepipe/internal/authors"
	"github.com/fernwehlabs/sitepipe/internal/content"
	"github.com/fernwehlabs/sitepipe/internal/frontmatter"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/markdown"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

var (
	ErrReadIndex    = errors.New("read post index")
	ErrDecodeMatter = errors.New("decode post frontmatter")
)

// excerptLength caps derived excerpts, cut at a word boundary.
const excerptLength = 240

// LicenseResolver resolves license identifiers. Satisfied by
// refdata.Dataset.
type LicenseResolver interface {
	LicenseByID(id string) (sitemodel.License, bool)
}

// ModTimer supplies last-modified times for content files, the fallback for
// posts without an edited date. Implemented by gitmeta.Repo; a nil ModTimer
// disables the fallback.
type ModTimer interface {
	LastModified(path string) (time.Time, error)
}

// Builder aggregates post records.
type Builder struct {
	root     string
	pageSize int
	scanner  *content.Scanner
	modtime  ModTimer
	log      *slog.Logger
}

func NewBuilder(root, defaultLocale string, pageSize int, modtime ModTimer, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		root:     root,
		pageSize: pageSize,
		scanner:  content.NewScanner(defaultLocale, log),
		modtime:  modtime,
		log:      log,
	}
}

// Build scans the posts root and enriches every post. The result is sorted
// newest first with the banner pass applied; records are immutable from
// here on.
func (b *Builder) Build(
	ctx context.Context,
	idx authors.Index,
	licenses LicenseResolver,
	tags map[string]sitemodel.TagRecord,
	shells []sitemodel.CollectionShell,
) ([]sitemodel.PostRecord, error) {
	entries, err := b.scanner.Scan(ctx, b.root)
	if err != nil {
		return nil, err
	}

	shellBySlug := make(map[string]*sitemodel.CollectionShell, len(shells))
	for i := range shells {
		shellBySlug[shells[i].Slug] = &shells[i]
	}

	records := make([]sitemodel.PostRecord, 0, len(entries))
	for _, e := range entries {
		rec, err := b.buildPost(e, idx, licenses, tags, shellBySlug)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sitemodel.SortPostsByPublished(records)
	b.assignBanners(records)

	b.log.Debug("posts built", logfields.Count(len(records)))
	return records, nil
}

func (b *Builder) buildPost(
	e content.Entry,
	idx authors.Index,
	licenses LicenseResolver,
	tags map[string]sitemodel.TagRecord,
	shellBySlug map[string]*sitemodel.CollectionShell,
) (sitemodel.PostRecord, error) {
	raw, err := os.ReadFile(e.ActiveFile())
	if err != nil {
		return sitemodel.PostRecord{}, fmt.Errorf("%w: %s: %v", ErrReadIndex, e.ActiveFile(), err)
	}

	// The count runs over the whole file, frontmatter included. It feeds a
	// rough reading-time estimate, so precision is not worth a second parse.
	wordCount := len(strings.Fields(string(raw)))

	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return sitemodel.PostRecord{}, fmt.Errorf("post %q: %w", e.Slug, err)
	}
	matter, err := frontmatter.DecodePost(fm)
	if err != nil {
		return sitemodel.PostRecord{}, fmt.Errorf("%w: post %q: %w", ErrDecodeMatter, e.Slug, err)
	}

	rec := sitemodel.PostRecord{
		Slug:         e.Slug,
		Locales:      e.Locales,
		ActiveLocale: e.ActiveLocale(),
		Title:        matter.Title,
		Description:  matter.Description,
		Published:    matter.Published,
		Edited:       matter.Edited,
		Collection:   matter.Collection,
		Order:        matter.Order,
		OriginalLink: matter.OriginalLink,
		NoIndex:      matter.NoIndex,
		Attached:     matter.Attached,
		WordCount:    wordCount,
		SocialImg:    sitemodel.SocialImagePath(e.Slug),
		ScanOrder:    e.ScanOrder,
	}

	rec.Tags = b.validateTags(e.Slug, matter.Tags, tags)
	rec.Authors = idx.Resolve(matter.Authors, e.Slug, b.log)

	if matter.License != "" {
		if lic, ok := licenses.LicenseByID(matter.License); ok {
			rec.License = &lic
		} else {
			b.log.Warn("unknown license, leaving post unlicensed",
				logfields.Slug(e.Slug), logfields.License(matter.License))
		}
	}

	if matter.Collection != "" {
		if shell, ok := shellBySlug[matter.Collection]; ok {
			rec.CollectionMeta = shell
		} else {
			b.log.Warn("unknown collection, leaving post unlinked",
				logfields.Slug(e.Slug), logfields.Collection(matter.Collection))
		}
	}

	rec.Excerpt = matter.Description
	if rec.Excerpt == "" {
		rec.Excerpt = markdown.Excerpt(body, excerptLength)
	}

	if rec.Edited.IsZero() && b.modtime != nil {
		if mod, err := b.modtime.LastModified(e.ActiveFile()); err == nil {
			rec.Edited = mod
		} else {
			b.log.Debug("no modification time for post",
				logfields.Slug(e.Slug), logfields.Error(err))
		}
	}

	return rec, nil
}

// validateTags filters frontmatter tags to known ones. Unknown tags drop
// with a warning; the post itself is kept.
func (b *Builder) validateTags(slug string, ids []string, known map[string]sitemodel.TagRecord) []sitemodel.TagRecord {
	out := make([]sitemodel.TagRecord, 0, len(ids))
	for _, id := range ids {
		rec, ok := known[id]
		if !ok {
			b.log.Warn("unknown tag, dropping",
				logfields.Slug(slug), logfields.Tag(id))
			continue
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// assignBanners runs strictly after the sort. One zero-based counter per
// locale walks the sorted list; the first and middle slot of each listing
// page get a banner image. Rank is recomputed every build, so edits that
// reorder posts move the banners with them.
func (b *Builder) assignBanners(records []sitemodel.PostRecord) {
	counters := make(map[string]int)
	for i := range records {
		pos := counters[records[i].ActiveLocale]
		counters[records[i].ActiveLocale]++
		if sitemodel.OnBannerSlot(pos, b.pageSize) {
			records[i].BannerImg = sitemodel.BannerImagePath(records[i].Slug)
		}
	}
}
