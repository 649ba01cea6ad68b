package sitemodel

// Raw reference dataset shapes. These mirror the JSON files under the data
// directory and pass through the pipeline unchanged; enrichment builds the
// derived records in records.go from them.

// Author is a raw author record from authors.json.
type Author struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Pronouns    string   `json:"pronouns,omitempty"`
	Color       string   `json:"color,omitempty"`
	ProfileImg  string   `json:"profileImg"`
	Roles       []string `json:"roles,omitempty"`
	Socials     Socials  `json:"socials"`
}

// Socials carries an author's social handles as authored. Values may be bare
// handles, full profile URLs, or @-prefixed names; enrichment normalizes them.
type Socials struct {
	Twitter  string `json:"twitter,omitempty"`
	Github   string `json:"github,omitempty"`
	Gitlab   string `json:"gitlab,omitempty"`
	LinkedIn string `json:"linkedIn,omitempty"`
	Twitch   string `json:"twitch,omitempty"`
	Dribbble string `json:"dribbble,omitempty"`
	Threads  string `json:"threads,omitempty"`
	Cohost   string `json:"cohost,omitempty"`
	Mastodon string `json:"mastodon,omitempty"`
	Youtube  string `json:"youtube,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Role is a role record from roles.json.
type Role struct {
	ID     string `json:"id"`
	Pretty string `json:"prettyname"`
}

// License is a license record from licenses.json.
type License struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	ExplainLink string `json:"explainLink,omitempty"`
	FooterImg   string `json:"footerImg,omitempty"`
}

// TagMeta is a raw tag descriptor from tags.json, keyed by tag id.
type TagMeta struct {
	DisplayName string `json:"displayName"`
	Image       string `json:"image,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Shown       bool   `json:"shown,omitempty"`
}

// StaticCollection is a pre-authored collection descriptor from
// collections.json, for collections not backed by a content directory.
// Cover images resolve against the public assets root instead of a
// collection directory.
type StaticCollection struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Published   string   `json:"published"`
	Authors     []string `json:"authors"`
	CoverImg    string   `json:"coverImg"`
}
