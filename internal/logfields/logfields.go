package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySlug       = "slug"
	KeyLocale     = "locale"
	KeyTag        = "tag"
	KeyAuthor     = "author"
	KeyRole       = "role"
	KeyCollection = "collection"
	KeyLicense    = "license"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCount      = "count"
	KeyURL        = "url"
	KeySubject    = "subject"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Locale(l string) slog.Attr        { return slog.String(KeyLocale, l) }
func Tag(t string) slog.Attr           { return slog.String(KeyTag, t) }
func Author(id string) slog.Attr       { return slog.String(KeyAuthor, id) }
func Role(id string) slog.Attr         { return slog.String(KeyRole, id) }
func Collection(slug string) slog.Attr { return slog.String(KeyCollection, slug) }
func License(id string) slog.Attr      { return slog.String(KeyLicense, id) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
