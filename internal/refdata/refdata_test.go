package refdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehlabs/sitepipe/internal/markdown"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "about.json", `{"title":"Fernweh","tagline":"notes from elsewhere"}`)
	writeFile(t, dir, "authors.json", `[{"id":"jo","name":"Jo Doe","profileImg":"img/jo.png","roles":["dev"],"socials":{"github":"jodoe"}}]`)
	writeFile(t, dir, "roles.json", `[{"id":"dev","prettyname":"Developer"},{"id":"ops","prettyname":"Operations"}]`)
	writeFile(t, dir, "licenses.json", `[{"id":"cc-by","name":"CC BY 4.0","explainLink":"https://creativecommons.org/licenses/by/4.0/"}]`)
	writeFile(t, dir, "tags.json", `{"go":{"displayName":"Go","emoji":"🐹"},"art":{"displayName":"Artwork","image":"img/tags/art.svg"}}`)
	return dir
}

func newTestLoader(dir string) *Loader {
	return NewLoader(dir, markdown.NewRenderer(), nil)
}

func TestLoadDatasets(t *testing.T) {
	dir := writeDataDir(t)

	d, err := newTestLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Contains(t, string(d.About), "Fernweh")
	require.Len(t, d.Authors, 1)
	assert.Equal(t, "jo", d.Authors[0].ID)
	assert.Equal(t, "jodoe", d.Authors[0].Socials.Github)

	role, ok := d.RoleByID("ops")
	require.True(t, ok)
	assert.Equal(t, "Operations", role.Pretty)
	_, ok = d.RoleByID("nope")
	assert.False(t, ok)

	lic, ok := d.LicenseByID("cc-by")
	require.True(t, ok)
	assert.Equal(t, "CC BY 4.0", lic.Name)

	require.Contains(t, d.Tags, "go")
	assert.Equal(t, "Go", d.Tags["go"].DisplayName)
	assert.Empty(t, d.StaticCollections, "collections.json is optional")
}

func TestLoadStaticCollections(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, "collections.json",
		`[{"slug":"zine","title":"The Zine","published":"2023-05-01","authors":["jo"],"coverImg":"img/zine.png"}]`)

	d, err := newTestLoader(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, d.StaticCollections, 1)
	assert.Equal(t, "zine", d.StaticCollections[0].Slug)
	assert.Equal(t, []string{"jo"}, d.StaticCollections[0].Authors)
}

func TestLoadMissingDatasetFatal(t *testing.T) {
	dir := writeDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "roles.json")))

	_, err := newTestLoader(dir).Load(context.Background())
	require.ErrorIs(t, err, ErrDatasetRead)
}

func TestLoadBadJSONFatal(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, "licenses.json", `{"not":"a list"`)

	_, err := newTestLoader(dir).Load(context.Background())
	require.ErrorIs(t, err, ErrDatasetDecode)
}

func TestTagExplainerFromLicenseSibling(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, "img/tags/art-LICENSE.md",
		"Icon by [Jane](https://example.com/jane) under [CC BY](https://creativecommons.org/licenses/by/4.0/).")

	d, err := newTestLoader(dir).Load(context.Background())
	require.NoError(t, err)

	art := d.Tags["art"]
	assert.Equal(t, sitemodel.ExplainerLicense, art.ExplainerKind)
	assert.Contains(t, art.ExplainerHTML, "<a href=\"https://example.com/jane\"")
	assert.Equal(t, []string{"https://example.com/jane", "https://creativecommons.org/licenses/by/4.0/"}, art.ExplainerLinks)
}

func TestTagExplainerLicenseWinsOverAttribution(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, "img/tags/art-LICENSE.md", "license text")
	writeFile(t, dir, "img/tags/art-ATTRIBUTION.md", "attribution text")

	d, err := newTestLoader(dir).Load(context.Background())
	require.NoError(t, err)

	art := d.Tags["art"]
	assert.Equal(t, sitemodel.ExplainerLicense, art.ExplainerKind)
	assert.Contains(t, art.ExplainerHTML, "license text")
}

func TestTagExplainerAttributionFallback(t *testing.T) {
	dir := writeDataDir(t)
	writeFile(t, dir, "img/tags/art-ATTRIBUTION.md", "drawn by a friend")

	d, err := newTestLoader(dir).Load(context.Background())
	require.NoError(t, err)

	art := d.Tags["art"]
	assert.Equal(t, sitemodel.ExplainerAttribution, art.ExplainerKind)
	assert.Contains(t, art.ExplainerHTML, "drawn by a friend")
}

func TestTagWithoutSiblingHasNoExplainer(t *testing.T) {
	dir := writeDataDir(t)

	d, err := newTestLoader(dir).Load(context.Background())
	require.NoError(t, err)

	art := d.Tags["art"]
	assert.Equal(t, sitemodel.ExplainerNone, art.ExplainerKind)
	assert.Empty(t, art.ExplainerHTML)

	// Raster and emoji-only tags never probe for explainers.
	assert.Empty(t, d.Tags["go"].ExplainerHTML)
}
