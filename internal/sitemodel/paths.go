package sitemodel

// Generated asset locations. The image generator publishes per-post previews
// under /generated using the post slug; the pipeline only records the paths.

// SocialImagePath is the social preview card for a post.
func SocialImagePath(slug string) string {
	return "/generated/" + slug + ".twitter-preview.jpg"
}

// BannerImagePath is the wide banner variant used on landing-page
// banner slots.
func BannerImagePath(slug string) string {
	return "/generated/" + slug + ".banner.jpg"
}

// OnBannerSlot reports whether position pos in a date-sorted, per-locale
// post sequence lands on a banner slot: the first or middle entry of each
// page of pageSize posts.
func OnBannerSlot(pos, pageSize int) bool {
	if pageSize <= 0 {
		return false
	}
	p := pos % pageSize
	return p == 0 || p == pageSize/2
}
