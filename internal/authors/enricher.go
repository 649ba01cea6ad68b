// Package authors turns raw author records into enriched ones: measured
// profile images, resolved roles, and normalized social handles.
package authors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fernwehlabs/sitepipe/internal/images"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

// ErrProfileImage marks an author profile image that could not be measured.
var ErrProfileImage = errors.New("measure profile image")

// RoleResolver resolves role identifiers. Satisfied by refdata.Dataset.
type RoleResolver interface {
	RoleByID(id string) (sitemodel.Role, bool)
}

// Enricher builds AuthorRecords. Profile images resolve against the data
// directory and are served under /content/data.
type Enricher struct {
	dataDir string
	sizer   images.Sizer
	log     *slog.Logger
}

func NewEnricher(dataDir string, sizer images.Sizer, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{dataDir: dataDir, sizer: sizer, log: log}
}

// EnrichAll enriches every author, preserving input order. Any single
// failure fails the lot; records are built once and never mutated after.
func (e *Enricher) EnrichAll(raw []sitemodel.Author, roles RoleResolver) ([]sitemodel.AuthorRecord, error) {
	out := make([]sitemodel.AuthorRecord, 0, len(raw))
	for _, a := range raw {
		rec, err := e.Enrich(a, roles)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Enrich builds one AuthorRecord.
func (e *Enricher) Enrich(a sitemodel.Author, roles RoleResolver) (sitemodel.AuthorRecord, error) {
	rec := sitemodel.AuthorRecord{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Pronouns:    a.Pronouns,
		Color:       a.Color,
		ProfileImg:  a.ProfileImg,
	}

	meta, err := e.measureProfileImage(a)
	if err != nil {
		return sitemodel.AuthorRecord{}, err
	}
	rec.ProfileImageMeta = meta

	for _, id := range a.Roles {
		role, ok := roles.RoleByID(id)
		if !ok {
			e.log.Warn("unknown role, skipping",
				logfields.Author(a.ID), logfields.Role(id))
			continue
		}
		rec.Roles = append(rec.Roles, role)
	}

	rec.Socials, err = normalizeSocials(a.Socials)
	if err != nil {
		return sitemodel.AuthorRecord{}, fmt.Errorf("author %q: %w", a.ID, err)
	}

	return rec, nil
}

func (e *Enricher) measureProfileImage(a sitemodel.Author) (sitemodel.ImageMeta, error) {
	rel := strings.TrimPrefix(a.ProfileImg, "/")
	abs := filepath.Join(e.dataDir, filepath.FromSlash(rel))
	w, h, err := e.sizer.Size(abs)
	if err != nil {
		return sitemodel.ImageMeta{}, fmt.Errorf("%w: author %q: %v", ErrProfileImage, a.ID, err)
	}
	return sitemodel.ImageMeta{
		Width:      w,
		Height:     h,
		Rel:        a.ProfileImg,
		ServerPath: "/content/data/" + rel,
		Abs:        abs,
	}, nil
}
