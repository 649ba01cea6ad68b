package authors

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

// ErrMastodonURL marks a mastodon value that is not an absolute URL.
// Mastodon instances live on arbitrary hosts, so a bare handle cannot be
// resolved and the record is rejected instead of guessed at.
var ErrMastodonURL = errors.New("mastodon value is not an absolute URL")

// NormalizeHandle reduces a social value to a bare handle: strips one
// trailing slash, then everything up to the last '/' or '@'. Already-bare
// handles pass through, so the operation is idempotent.
func NormalizeHandle(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "/")
	if i := strings.LastIndexAny(v, "/@"); i >= 0 {
		v = v[i+1:]
	}
	return v
}

// normalizeMastodon validates and canonicalizes an absolute profile URL.
func normalizeMastodon(v string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrMastodonURL, v)
	}
	return u.String(), nil
}

// normalizeYoutube builds a channel URL from the raw value: handle form
// when it contains '@', channel-id form otherwise. The raw value is used
// as-is, not reduced to a handle first.
func normalizeYoutube(v string) string {
	if strings.Contains(v, "@") {
		return "https://www.youtube.com/" + v
	}
	return "https://www.youtube.com/channel/" + v
}

func normalizeSocials(s sitemodel.Socials) (sitemodel.Socials, error) {
	out := sitemodel.Socials{
		Twitter:  NormalizeHandle(s.Twitter),
		Github:   NormalizeHandle(s.Github),
		Gitlab:   NormalizeHandle(s.Gitlab),
		LinkedIn: NormalizeHandle(s.LinkedIn),
		Twitch:   NormalizeHandle(s.Twitch),
		Dribbble: NormalizeHandle(s.Dribbble),
		Threads:  NormalizeHandle(s.Threads),
		Cohost:   NormalizeHandle(s.Cohost),
		Website:  s.Website,
	}
	if s.Mastodon != "" {
		m, err := normalizeMastodon(s.Mastodon)
		if err != nil {
			return sitemodel.Socials{}, err
		}
		out.Mastodon = m
	}
	if s.Youtube != "" {
		out.Youtube = normalizeYoutube(s.Youtube)
	}
	return out, nil
}
