package sitemodel

import "time"

// ImageMeta describes a measured image in the three coordinate systems the
// site cares about: the path as authored, the path the asset server exposes,
// and the filesystem path the measurement was taken from.
type ImageMeta struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Rel        string `json:"relPath"`
	ServerPath string `json:"serverPath"`
	Abs        string `json:"-"`
}

// AuthorRecord is an enriched author, ready for rendering.
type AuthorRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Pronouns         string    `json:"pronouns,omitempty"`
	Color            string    `json:"color,omitempty"`
	ProfileImg       string    `json:"profileImg"`
	ProfileImageMeta ImageMeta `json:"profileImageMeta"`
	Roles            []Role    `json:"roles,omitempty"`
	Socials          Socials   `json:"socials"`
}

// ExplainerKind says which sibling document a tag explainer came from.
type ExplainerKind string

const (
	ExplainerNone        ExplainerKind = ""
	ExplainerLicense     ExplainerKind = "license"
	ExplainerAttribution ExplainerKind = "attribution"
)

// TagRecord is an enriched tag: display metadata from tags.json plus an
// optional rendered explainer document.
type TagRecord struct {
	ID             string        `json:"id"`
	DisplayName    string        `json:"displayName"`
	Image          string        `json:"image,omitempty"`
	Emoji          string        `json:"emoji,omitempty"`
	Shown          bool          `json:"shown,omitempty"`
	ExplainerHTML  string        `json:"explainerHtml,omitempty"`
	ExplainerKind  ExplainerKind `json:"explainerKind,omitempty"`
	ExplainerLinks []string      `json:"explainerLinks,omitempty"`
}

// CollectionShell is a collection before post association. Posts reference
// shells so that the post and collection aggregates can build independently;
// the cross-link stage upgrades shells to full CollectionRecords.
type CollectionShell struct {
	Slug           string         `json:"slug"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Published      time.Time      `json:"published"`
	Authors        []AuthorRecord `json:"authors"`
	CoverImg       string         `json:"coverImg"`
	CoverImageMeta ImageMeta      `json:"coverImageMeta"`
	Locales        []string       `json:"locales,omitempty"`
	ActiveLocale   string         `json:"activeLocale,omitempty"`

	// ScanOrder is the position in discovery order, the tie-break for
	// equal publish dates. Static descriptors sort after scanned ones.
	ScanOrder int `json:"-"`
}

// CollectionRecord is a collection with its member posts attached,
// newest first.
type CollectionRecord struct {
	CollectionShell
	Posts []PostRecord `json:"posts"`
}

// PostRecord is a fully enriched post.
type PostRecord struct {
	Slug         string    `json:"slug"`
	Locales      []string  `json:"locales"`
	ActiveLocale string    `json:"activeLocale"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Published    time.Time `json:"published"`
	Edited       time.Time `json:"edited,omitzero"`

	Authors        []AuthorRecord   `json:"authors"`
	Tags           []TagRecord      `json:"tags,omitempty"`
	License        *License         `json:"license,omitempty"`
	Collection     string           `json:"collection,omitempty"`
	CollectionMeta *CollectionShell `json:"collectionMeta,omitempty"`

	Order        int      `json:"order,omitempty"`
	OriginalLink string   `json:"originalLink,omitempty"`
	NoIndex      bool     `json:"noindex,omitempty"`
	Attached     []string `json:"attached,omitempty"`

	WordCount int    `json:"wordCount"`
	SocialImg string `json:"socialImg"`
	BannerImg string `json:"bannerImg,omitempty"`

	ScanOrder int `json:"-"`
}
