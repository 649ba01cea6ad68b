package refdata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fernwehlabs/sitepipe/internal/images"
	"github.com/fernwehlabs/sitepipe/internal/markdown"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

var (
	ErrExplainerRead   = errors.New("read tag explainer")
	ErrExplainerRender = errors.New("render tag explainer")
)

// buildTags turns raw tag metadata into enriched records. Tags whose image
// is a vector asset get an explainer when a sibling license or attribution
// document exists next to the image; the license document wins when both do.
func (l *Loader) buildTags(meta map[string]sitemodel.TagMeta) (map[string]sitemodel.TagRecord, error) {
	tags := make(map[string]sitemodel.TagRecord, len(meta))
	for id, m := range meta {
		rec := sitemodel.TagRecord{
			ID:          id,
			DisplayName: m.DisplayName,
			Image:       m.Image,
			Emoji:       m.Emoji,
			Shown:       m.Shown,
		}
		if m.Image != "" && images.IsVector(m.Image) {
			if err := l.attachExplainer(&rec); err != nil {
				return nil, fmt.Errorf("tag %q: %w", id, err)
			}
		}
		tags[id] = rec
	}
	return tags, nil
}

func (l *Loader) attachExplainer(rec *sitemodel.TagRecord) error {
	base := strings.TrimSuffix(rec.Image, filepath.Ext(rec.Image))
	candidates := []struct {
		suffix string
		kind   sitemodel.ExplainerKind
	}{
		{"-LICENSE.md", sitemodel.ExplainerLicense},
		{"-ATTRIBUTION.md", sitemodel.ExplainerAttribution},
	}

	for _, c := range candidates {
		raw, err := os.ReadFile(l.resolveDataPath(base + c.suffix))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExplainerRead, err)
		}

		html, err := l.renderer.Render(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExplainerRender, err)
		}
		links, err := markdown.ExtractLinks(html)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExplainerRender, err)
		}

		rec.ExplainerHTML = html
		rec.ExplainerKind = c.kind
		rec.ExplainerLinks = links
		l.logExplainer(rec.ID, c.kind, len(links))
		return nil
	}
	return nil
}

// resolveDataPath maps an authored asset path (slash-separated, possibly
// absolute to the served root) onto the data directory.
func (l *Loader) resolveDataPath(rel string) string {
	return filepath.Join(l.dataDir, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}
