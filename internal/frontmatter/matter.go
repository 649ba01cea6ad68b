package frontmatter

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

// PostMatter is the typed frontmatter of a post index file.
type PostMatter struct {
	Title        string
	Description  string
	Published    time.Time
	Edited       time.Time // zero when the frontmatter has no edited date
	Authors      []string
	Tags         []string
	License      string
	Collection   string
	Order        int
	OriginalLink string
	NoIndex      bool
	Attached     []string
}

// CollectionMatter is the typed frontmatter of a collection index file.
type CollectionMatter struct {
	Title       string
	Description string
	Published   time.Time
	Authors     []string
	CoverImg    string
}

var (
	// ErrNoPublishedDate indicates frontmatter without a parseable published date.
	ErrNoPublishedDate = errors.New("frontmatter has no published date")

	// ErrBadDate indicates a date field that could not be parsed.
	ErrBadDate = errors.New("unparseable frontmatter date")
)

// postMatterDoc is the raw YAML shape; dates arrive as strings in a variety
// of formats (bare dates, RFC 3339, ...) and are parsed with dateparse.
type postMatterDoc struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Published    string   `yaml:"published"`
	Edited       string   `yaml:"edited"`
	Authors      []string `yaml:"authors"`
	Tags         []string `yaml:"tags"`
	License      string   `yaml:"license"`
	Collection   string   `yaml:"collection"`
	Order        int      `yaml:"order"`
	OriginalLink string   `yaml:"originalLink"`
	NoIndex      bool     `yaml:"noindex"`
	Attached     []string `yaml:"attached"`
}

type collectionMatterDoc struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Published   string   `yaml:"published"`
	Authors     []string `yaml:"authors"`
	CoverImg    string   `yaml:"coverImg"`
}

// DecodePost decodes raw YAML frontmatter into a PostMatter.
func DecodePost(raw []byte) (PostMatter, error) {
	var doc postMatterDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return PostMatter{}, fmt.Errorf("decode post frontmatter: %w", err)
	}

	published, err := parseRequiredDate(doc.Published)
	if err != nil {
		return PostMatter{}, err
	}

	var edited time.Time
	if doc.Edited != "" {
		edited, err = dateparse.ParseStrict(doc.Edited)
		if err != nil {
			return PostMatter{}, fmt.Errorf("%w: edited %q: %v", ErrBadDate, doc.Edited, err)
		}
	}

	return PostMatter{
		Title:        doc.Title,
		Description:  doc.Description,
		Published:    published,
		Edited:       edited,
		Authors:      doc.Authors,
		Tags:         doc.Tags,
		License:      doc.License,
		Collection:   doc.Collection,
		Order:        doc.Order,
		OriginalLink: doc.OriginalLink,
		NoIndex:      doc.NoIndex,
		Attached:     doc.Attached,
	}, nil
}

// DecodeCollection decodes raw YAML frontmatter into a CollectionMatter.
func DecodeCollection(raw []byte) (CollectionMatter, error) {
	var doc collectionMatterDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return CollectionMatter{}, fmt.Errorf("decode collection frontmatter: %w", err)
	}

	published, err := parseRequiredDate(doc.Published)
	if err != nil {
		return CollectionMatter{}, err
	}

	return CollectionMatter{
		Title:       doc.Title,
		Description: doc.Description,
		Published:   published,
		Authors:     doc.Authors,
		CoverImg:    doc.CoverImg,
	}, nil
}

func parseRequiredDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, ErrNoPublishedDate
	}
	t, err := dateparse.ParseStrict(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: published %q: %v", ErrBadDate, raw, err)
	}
	return t, nil
}
