package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

var (
	// ErrNoPostsDir indicates the posts directory setting is empty.
	ErrNoPostsDir = errors.New("content.posts_dir must not be empty")

	// ErrNoDataDir indicates the reference data directory setting is empty.
	ErrNoDataDir = errors.New("content.data_dir must not be empty")

	// ErrBadDefaultLocale indicates the default locale is not a valid BCP 47 tag.
	ErrBadDefaultLocale = errors.New("content.default_locale is not a valid language tag")

	// ErrBadPageSize indicates a non-positive listing page size.
	ErrBadPageSize = errors.New("content.page_size must be positive")

	// ErrNotifyWithoutURL indicates notify is enabled without a NATS URL.
	ErrNotifyWithoutURL = errors.New("notify.enabled requires notify.nats_url")
)

// Validate checks the configuration for structural problems. It is called by
// Load after defaults are applied, so empty-but-defaultable fields are already
// filled in by the time it runs.
func (c *Config) Validate() error {
	if c.Content.PostsDir == "" {
		return ErrNoPostsDir
	}
	if c.Content.DataDir == "" {
		return ErrNoDataDir
	}
	if _, err := language.Parse(c.Content.DefaultLocale); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadDefaultLocale, c.Content.DefaultLocale, err)
	}
	if c.Content.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrBadPageSize, c.Content.PageSize)
	}
	if c.Notify.Enabled && c.Notify.NATSURL == "" {
		return ErrNotifyWithoutURL
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
