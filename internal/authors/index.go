package authors

import (
	"log/slog"

	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

// Index is an id lookup over enriched authors.
type Index map[string]sitemodel.AuthorRecord

func NewIndex(recs []sitemodel.AuthorRecord) Index {
	idx := make(Index, len(recs))
	for _, r := range recs {
		idx[r.ID] = r
	}
	return idx
}

// Resolve maps author ids to records, preserving order. Unknown ids are
// skipped with a warning naming the content slug they came from.
func (idx Index) Resolve(ids []string, slug string, log *slog.Logger) []sitemodel.AuthorRecord {
	if log == nil {
		log = slog.Default()
	}
	out := make([]sitemodel.AuthorRecord, 0, len(ids))
	for _, id := range ids {
		rec, ok := idx[id]
		if !ok {
			log.Warn("unknown author, skipping",
				logfields.Slug(slug), logfields.Author(id))
			continue
		}
		out = append(out, rec)
	}
	return out
}
