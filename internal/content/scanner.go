// Package content discovers content entries on disk. An entry is an
// immediate subdirectory of a content root whose name is the slug; its
// locale variants are files named index.md (default locale) or
// index.{locale}.md.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/fernwehlabs/sitepipe/internal/logfields"
)

// ErrScanRoot marks a content root that could not be listed.
var ErrScanRoot = errors.New("scan content root")

// Entry is one discovered content directory. Locales and Files are aligned:
// position i of both describes the same physical file. Both derive from a
// single lexical directory listing, captured here so ordering is an explicit
// input to later stages rather than a filesystem accident.
type Entry struct {
	Slug    string
	Dir     string
	Locales []string
	Files   []string

	// Active indexes Locales/Files: the default-locale variant when
	// present, otherwise the first discovered one.
	Active int

	// ScanOrder is the entry's position in the root listing, the
	// tie-break for equal publish dates downstream.
	ScanOrder int
}

// ActiveLocale returns the locale whose file supplies the entry's
// frontmatter.
func (e Entry) ActiveLocale() string { return e.Locales[e.Active] }

// ActiveFile returns the file path for ActiveLocale.
func (e Entry) ActiveFile() string { return e.Files[e.Active] }

// Scanner discovers entries under content roots.
type Scanner struct {
	defaultLocale string
	log           *slog.Logger
}

func NewScanner(defaultLocale string, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{defaultLocale: defaultLocale, log: log}
}

// DefaultLocale returns the locale plain index.md files map to.
func (s *Scanner) DefaultLocale() string { return s.defaultLocale }

// Scan lists root and builds one Entry per slug directory that has at least
// one index file. Directories without index files are skipped. Files with a
// locale suffix that does not parse as a BCP 47 tag are skipped with a
// warning, keeping the locale/file alignment intact.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Entry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScanRoot, root, err)
	}

	var entries []Entry
	for _, de := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !de.IsDir() {
			continue
		}

		entry, ok, err := s.scanDir(root, de.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			s.log.Debug("directory has no index files, skipping",
				logfields.Path(filepath.Join(root, de.Name())))
			continue
		}
		entry.ScanOrder = len(entries)
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Scanner) scanDir(root, slug string) (Entry, bool, error) {
	dir := filepath.Join(root, slug)
	files, err := os.ReadDir(dir)
	if err != nil {
		return Entry{}, false, fmt.Errorf("%w: %s: %w", ErrScanRoot, dir, err)
	}

	e := Entry{Slug: slug, Dir: dir}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		locale, ok := s.localeOf(f.Name())
		if !ok {
			continue
		}
		if locale != s.defaultLocale {
			if _, err := language.Parse(locale); err != nil {
				s.log.Warn("invalid locale suffix, skipping file",
					logfields.Slug(slug),
					logfields.Locale(locale),
					logfields.File(f.Name()))
				continue
			}
		}
		if locale == s.defaultLocale && (len(e.Locales) == 0 || e.Locales[e.Active] != s.defaultLocale) {
			e.Active = len(e.Locales)
		}
		e.Locales = append(e.Locales, locale)
		e.Files = append(e.Files, filepath.Join(dir, f.Name()))
	}
	return e, len(e.Files) > 0, nil
}

// localeOf maps an index filename to its locale. Plain index.md carries the
// default locale.
func (s *Scanner) localeOf(name string) (string, bool) {
	if name == "index.md" {
		return s.defaultLocale, true
	}
	if !strings.HasPrefix(name, "index.") || !strings.HasSuffix(name, ".md") {
		return "", false
	}
	locale := name[len("index.") : len(name)-len(".md")]
	if locale == "" {
		return "", false
	}
	return locale, true
}
