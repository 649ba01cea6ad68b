package authors

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

type roleTable map[string]sitemodel.Role

func (r roleTable) RoleByID(id string) (sitemodel.Role, bool) {
	role, ok := r[id]
	return role, ok
}

type stubSizer struct {
	w, h int
	err  error
}

func (s stubSizer) Size(string) (int, int, error) { return s.w, s.h, s.err }

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"torvalds", "torvalds"},
		{"https://github.com/torvalds", "torvalds"},
		{"@torvalds", "torvalds"},
		{"github.com/torvalds/", "torvalds"},
		{"", ""},
	}
	for _, c := range cases {
		got := NormalizeHandle(c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
		assert.Equal(t, c.want, NormalizeHandle(got), "not idempotent for %q", c.in)
	}
}

func TestNormalizeYoutubeForms(t *testing.T) {
	s, err := normalizeSocials(sitemodel.Socials{Youtube: "@somechannel"})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/@somechannel", s.Youtube)

	s, err = normalizeSocials(sitemodel.Socials{Youtube: "UC123"})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/channel/UC123", s.Youtube)

	// The raw value is not reduced first; a pre-qualified path doubles up.
	s, err = normalizeSocials(sitemodel.Socials{Youtube: "channel/UC123"})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/channel/channel/UC123", s.Youtube)
}

func TestMastodonRequiresAbsoluteURL(t *testing.T) {
	_, err := normalizeSocials(sitemodel.Socials{Mastodon: "jo@chaos.social"})
	require.ErrorIs(t, err, ErrMastodonURL)

	_, err = normalizeSocials(sitemodel.Socials{Mastodon: "@jo"})
	require.ErrorIs(t, err, ErrMastodonURL)

	s, err := normalizeSocials(sitemodel.Socials{Mastodon: "https://chaos.social/@jo"})
	require.NoError(t, err)
	assert.Equal(t, "https://chaos.social/@jo", s.Mastodon)
}

func TestEnrichBuildsRecord(t *testing.T) {
	dataDir := filepath.Join("testdata", "data")
	e := NewEnricher(dataDir, stubSizer{w: 256, h: 256}, nil)

	raw := sitemodel.Author{
		ID:         "jo",
		Name:       "Jo Doe",
		Pronouns:   "they/them",
		ProfileImg: "img/jo.png",
		Roles:      []string{"dev", "ghost"},
		Socials: sitemodel.Socials{
			Github:  "https://github.com/jodoe",
			Twitter: "@jodoe",
		},
	}
	roles := roleTable{"dev": {ID: "dev", Pretty: "Developer"}}

	rec, err := e.Enrich(raw, roles)
	require.NoError(t, err)

	assert.Equal(t, "jo", rec.ID)
	assert.Equal(t, 256, rec.ProfileImageMeta.Width)
	assert.Equal(t, "img/jo.png", rec.ProfileImageMeta.Rel)
	assert.Equal(t, "/content/data/img/jo.png", rec.ProfileImageMeta.ServerPath)
	assert.Equal(t, filepath.Join(dataDir, "img", "jo.png"), rec.ProfileImageMeta.Abs)

	// The unknown role is skipped, not fatal.
	require.Len(t, rec.Roles, 1)
	assert.Equal(t, "Developer", rec.Roles[0].Pretty)

	assert.Equal(t, "jodoe", rec.Socials.Github)
	assert.Equal(t, "jodoe", rec.Socials.Twitter)
}

func TestEnrichProfileImageFailureIsFatal(t *testing.T) {
	e := NewEnricher("data", stubSizer{err: errors.New("no such file")}, nil)

	_, err := e.Enrich(sitemodel.Author{ID: "jo", ProfileImg: "img/jo.png"}, roleTable{})
	require.ErrorIs(t, err, ErrProfileImage)
}

func TestEnrichAllStopsOnFirstFailure(t *testing.T) {
	e := NewEnricher("data", stubSizer{w: 1, h: 1}, nil)

	raw := []sitemodel.Author{
		{ID: "ok", ProfileImg: "a.png"},
		{ID: "bad", ProfileImg: "b.png", Socials: sitemodel.Socials{Mastodon: "not a url"}},
	}
	_, err := e.EnrichAll(raw, roleTable{})
	require.ErrorIs(t, err, ErrMastodonURL)
	assert.Contains(t, err.Error(), "bad")
}
