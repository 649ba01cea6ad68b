package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitepipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Example Blog\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "content/posts", cfg.Content.PostsDir)
	require.Equal(t, "content/collections", cfg.Content.CollectionsDir)
	require.Equal(t, "content/data", cfg.Content.DataDir)
	require.Equal(t, "public", cfg.Content.PublicDir)
	require.Equal(t, "en", cfg.Content.DefaultLocale)
	require.Equal(t, 8, cfg.Content.PageSize)
	require.Equal(t, "Example Blog", cfg.Site.Title)
	require.Equal(t, 8488, cfg.Server.Port)
	require.Equal(t, 400*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, "sitepipe.builds", cfg.Notify.Subject)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SITEPIPE_TEST_POSTS", "alt/posts")
	path := writeConfig(t, "content:\n  posts_dir: ${SITEPIPE_TEST_POSTS}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "alt/posts", cfg.Content.PostsDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_BadLocale(t *testing.T) {
	path := writeConfig(t, "content:\n  default_locale: \"!!\"\n")

	_, err := Load(path)
	require.ErrorIs(t, err, ErrBadDefaultLocale)
}

func TestValidate_NotifyRequiresURL(t *testing.T) {
	path := writeConfig(t, "notify:\n  enabled: true\n")

	_, err := Load(path)
	require.ErrorIs(t, err, ErrNotifyWithoutURL)
}

func TestNormalizeLogLevel(t *testing.T) {
	require.Equal(t, LogLevelDebug, NormalizeLogLevel("DEBUG"))
	require.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel(""))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("bogus"))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 8, cfg.Content.PageSize)
}
