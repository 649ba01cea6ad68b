package sitemodel

import (
	"encoding/json"
	"time"
)

// SiteData is the complete build output: everything the site renderer needs,
// in one serializable value. A build either produces a full SiteData or
// fails; there is no partial output.
type SiteData struct {
	BuildID  string    `json:"buildId"`
	Revision string    `json:"revision,omitempty"`
	BuiltAt  time.Time `json:"builtAt"`
	Title    string    `json:"title,omitempty"`

	// Pass-through reference data.
	About    json.RawMessage `json:"about,omitempty"`
	Unicorns []Author        `json:"unicorns"`
	Roles    []Role          `json:"roles"`
	Licenses []License       `json:"licenses"`

	// Enriched data.
	Authors     []AuthorRecord       `json:"authors"`
	Tags        map[string]TagRecord `json:"tags"`
	Collections []CollectionRecord   `json:"collections"`
	Posts       []PostRecord         `json:"posts"`
}

// PostBySlug returns the post for slug, or nil.
func (s *SiteData) PostBySlug(slug string) *PostRecord {
	for i := range s.Posts {
		if s.Posts[i].Slug == slug {
			return &s.Posts[i]
		}
	}
	return nil
}

// CollectionBySlug returns the collection for slug, or nil.
func (s *SiteData) CollectionBySlug(slug string) *CollectionRecord {
	for i := range s.Collections {
		if s.Collections[i].Slug == slug {
			return &s.Collections[i]
		}
	}
	return nil
}

// AuthorByID returns the enriched author for id, or nil.
func (s *SiteData) AuthorByID(id string) *AuthorRecord {
	for i := range s.Authors {
		if s.Authors[i].ID == id {
			return &s.Authors[i]
		}
	}
	return nil
}
