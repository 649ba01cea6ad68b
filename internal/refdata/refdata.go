// Package refdata loads the reference datasets a build cross-references:
// site metadata, authors, roles, licenses, and tags. Tag records with vector
// imagery may carry a rendered explainer document sourced from a sibling
// markdown file.
package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/markdown"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

var (
	ErrDatasetRead   = errors.New("read reference dataset")
	ErrDatasetDecode = errors.New("decode reference dataset")
)

// Dataset bundles the loaded reference data. The raw slices pass through to
// the final site dataset unchanged; Tags is already enriched.
type Dataset struct {
	About             json.RawMessage
	Authors           []sitemodel.Author
	Roles             []sitemodel.Role
	Licenses          []sitemodel.License
	StaticCollections []sitemodel.StaticCollection
	Tags              map[string]sitemodel.TagRecord
}

// RoleByID looks up a role by its identifier.
func (d *Dataset) RoleByID(id string) (sitemodel.Role, bool) {
	for _, r := range d.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return sitemodel.Role{}, false
}

// LicenseByID looks up a license by its identifier.
func (d *Dataset) LicenseByID(id string) (sitemodel.License, bool) {
	for _, l := range d.Licenses {
		if l.ID == id {
			return l, true
		}
	}
	return sitemodel.License{}, false
}

// Loader reads reference datasets from a data directory.
type Loader struct {
	dataDir  string
	renderer *markdown.Renderer
	log      *slog.Logger
}

func NewLoader(dataDir string, renderer *markdown.Renderer, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{dataDir: dataDir, renderer: renderer, log: log}
}

// Load reads every dataset. Any unreadable or undecodable dataset fails the
// load; only collections.json may be absent (not every site defines static
// collections).
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	d := &Dataset{}

	about, err := os.ReadFile(filepath.Join(l.dataDir, "about.json"))
	if err != nil {
		return nil, fmt.Errorf("%w: about.json: %v", ErrDatasetRead, err)
	}
	if !json.Valid(about) {
		return nil, fmt.Errorf("%w: about.json is not valid JSON", ErrDatasetDecode)
	}
	d.About = json.RawMessage(about)

	if err := l.decodeFile("authors.json", &d.Authors); err != nil {
		return nil, err
	}
	if err := l.decodeFile("roles.json", &d.Roles); err != nil {
		return nil, err
	}
	if err := l.decodeFile("licenses.json", &d.Licenses); err != nil {
		return nil, err
	}

	var meta map[string]sitemodel.TagMeta
	if err := l.decodeFile("tags.json", &meta); err != nil {
		return nil, err
	}

	if err := l.decodeFile("collections.json", &d.StaticCollections); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		d.StaticCollections = nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.Tags, err = l.buildTags(meta)
	if err != nil {
		return nil, err
	}

	l.log.Debug("reference data loaded",
		slog.Int("authors", len(d.Authors)),
		slog.Int("roles", len(d.Roles)),
		slog.Int("licenses", len(d.Licenses)),
		slog.Int("tags", len(d.Tags)),
		slog.Int("static_collections", len(d.StaticCollections)))

	return d, nil
}

func (l *Loader) decodeFile(name string, into any) error {
	raw, err := os.ReadFile(filepath.Join(l.dataDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrDatasetRead, name, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrDatasetRead, name, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDatasetDecode, name, err)
	}
	return nil
}

func (l *Loader) logExplainer(id string, kind sitemodel.ExplainerKind, links int) {
	l.log.Debug("tag explainer attached",
		logfields.Tag(id),
		slog.String("kind", string(kind)),
		logfields.Count(links))
}
