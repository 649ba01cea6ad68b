// Package collections builds collection shells: one per collection
// directory under the collections root, plus pre-authored static
// descriptors from the reference data. Shells carry no posts; the
// cross-link stage attaches those.
package collections

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/fernwehlabs/sitepipe/internal/authors"
	"github.com/fernwehlabs/sitepipe/internal/content"
	"github.com/fernwehlabs/sitepipe/internal/frontmatter"
	"github.com/fernwehlabs/sitepipe/internal/images"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

var (
	ErrReadIndex        = errors.New("read collection index")
	ErrDecodeMatter     = errors.New("decode collection frontmatter")
	ErrCoverImage       = errors.New("resolve collection cover image")
	ErrNoAuthors        = errors.New("collection has no resolvable authors")
	ErrStaticCollection = errors.New("bad static collection descriptor")
)

// Builder aggregates collection shells.
type Builder struct {
	root      string
	publicDir string
	scanner   *content.Scanner
	sizer     images.Sizer
	log       *slog.Logger
}

func NewBuilder(root, publicDir, defaultLocale string, sizer images.Sizer, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		root:      root,
		publicDir: publicDir,
		scanner:   content.NewScanner(defaultLocale, log),
		sizer:     sizer,
		log:       log,
	}
}

// Build scans the collections root and unions in the static descriptors.
// The result is sorted newest first; static descriptors break date ties
// after scanned collections. A missing collections root yields only the
// static descriptors.
func (b *Builder) Build(ctx context.Context, idx authors.Index, statics []sitemodel.StaticCollection) ([]sitemodel.CollectionShell, error) {
	entries, err := b.scanner.Scan(ctx, b.root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		b.log.Debug("collections root missing, using static descriptors only",
			logfields.Path(b.root))
	}

	shells := make([]sitemodel.CollectionShell, 0, len(entries)+len(statics))
	for _, e := range entries {
		shell, err := b.buildScanned(e, idx)
		if err != nil {
			return nil, err
		}
		shells = append(shells, shell)
	}
	for i, sc := range statics {
		shell, err := b.buildStatic(sc, idx, len(entries)+i)
		if err != nil {
			return nil, err
		}
		shells = append(shells, shell)
	}

	sitemodel.SortCollectionsByPublished(shells)
	b.log.Debug("collections built", logfields.Count(len(shells)))
	return shells, nil
}

func (b *Builder) buildScanned(e content.Entry, idx authors.Index) (sitemodel.CollectionShell, error) {
	raw, err := os.ReadFile(e.ActiveFile())
	if err != nil {
		return sitemodel.CollectionShell{}, fmt.Errorf("%w: %s: %v", ErrReadIndex, e.ActiveFile(), err)
	}
	fm, _, _, err := frontmatter.Split(raw)
	if err != nil {
		return sitemodel.CollectionShell{}, fmt.Errorf("collection %q: %w", e.Slug, err)
	}
	matter, err := frontmatter.DecodeCollection(fm)
	if err != nil {
		return sitemodel.CollectionShell{}, fmt.Errorf("%w: collection %q: %w", ErrDecodeMatter, e.Slug, err)
	}

	meta, err := b.measureCover(matter.CoverImg, e.Dir, "/content/collections/"+e.Slug, e.Slug)
	if err != nil {
		return sitemodel.CollectionShell{}, err
	}

	resolved := idx.Resolve(matter.Authors, e.Slug, b.log)
	if len(resolved) == 0 {
		return sitemodel.CollectionShell{}, fmt.Errorf("%w: %q", ErrNoAuthors, e.Slug)
	}

	return sitemodel.CollectionShell{
		Slug:           e.Slug,
		Title:          matter.Title,
		Description:    matter.Description,
		Published:      matter.Published,
		Authors:        resolved,
		CoverImg:       matter.CoverImg,
		CoverImageMeta: meta,
		Locales:        e.Locales,
		ActiveLocale:   e.ActiveLocale(),
		ScanOrder:      e.ScanOrder,
	}, nil
}

func (b *Builder) buildStatic(sc sitemodel.StaticCollection, idx authors.Index, order int) (sitemodel.CollectionShell, error) {
	published, err := dateparse.ParseStrict(sc.Published)
	if err != nil {
		return sitemodel.CollectionShell{}, fmt.Errorf("%w: %q: published %q: %v",
			ErrStaticCollection, sc.Slug, sc.Published, err)
	}

	meta, err := b.measureCover(sc.CoverImg, b.publicDir, "", sc.Slug)
	if err != nil {
		return sitemodel.CollectionShell{}, err
	}

	resolved := idx.Resolve(sc.Authors, sc.Slug, b.log)
	if len(resolved) == 0 {
		return sitemodel.CollectionShell{}, fmt.Errorf("%w: %q", ErrNoAuthors, sc.Slug)
	}

	locale := b.scanner.DefaultLocale()
	return sitemodel.CollectionShell{
		Slug:           sc.Slug,
		Title:          sc.Title,
		Description:    sc.Description,
		Published:      published,
		Authors:        resolved,
		CoverImg:       sc.CoverImg,
		CoverImageMeta: meta,
		Locales:        []string{locale},
		ActiveLocale:   locale,
		ScanOrder:      order,
	}, nil
}

// measureCover probes a cover image. rel resolves under baseDir; the served
// path is serverBase + "/" + rel (serverBase empty for public-root assets).
func (b *Builder) measureCover(rel, baseDir, serverBase, slug string) (sitemodel.ImageMeta, error) {
	if rel == "" {
		return sitemodel.ImageMeta{}, fmt.Errorf("%w: collection %q has no coverImg", ErrCoverImage, slug)
	}
	trimmed := strings.TrimPrefix(rel, "/")
	abs := filepath.Join(baseDir, filepath.FromSlash(trimmed))
	w, h, err := b.sizer.Size(abs)
	if err != nil {
		return sitemodel.ImageMeta{}, fmt.Errorf("%w: collection %q: %v", ErrCoverImage, slug, err)
	}
	return sitemodel.ImageMeta{
		Width:      w,
		Height:     h,
		Rel:        rel,
		ServerPath: serverBase + "/" + trimmed,
		Abs:        abs,
	}, nil
}
