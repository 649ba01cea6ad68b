package sitemodel

import "slices"

// SortPostsByPublished orders posts newest first. Posts with equal publish
// dates keep their relative discovery order, so reruns over an unchanged
// tree produce identical output.
func SortPostsByPublished(posts []PostRecord) {
	slices.SortStableFunc(posts, func(a, b PostRecord) int {
		return b.Published.Compare(a.Published)
	})
}

// SortCollectionsByPublished orders collections newest first with the same
// tie-break as SortPostsByPublished.
func SortCollectionsByPublished(cols []CollectionShell) {
	slices.SortStableFunc(cols, func(a, b CollectionShell) int {
		return b.Published.Compare(a.Published)
	})
}

// SortPostsByOrder orders posts by their explicit frontmatter order field,
// ascending. Used for posts inside a collection when every member carries
// an order; otherwise collections fall back to publish date.
func SortPostsByOrder(posts []PostRecord) {
	slices.SortStableFunc(posts, func(a, b PostRecord) int {
		return a.Order - b.Order
	})
}
