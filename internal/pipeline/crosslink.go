package pipeline

import "github.com/fernwehlabs/sitepipe/internal/sitemodel"

// crosslink attaches member posts to each collection shell: the subsequence
// of the globally sorted post list whose collection slug matches. Order
// carries over from the global sort. A collection with no members gets an
// empty, non-nil slice. Records are not mutated after this point.
func crosslink(shells []sitemodel.CollectionShell, posts []sitemodel.PostRecord) []sitemodel.CollectionRecord {
	out := make([]sitemodel.CollectionRecord, 0, len(shells))
	for _, sh := range shells {
		members := make([]sitemodel.PostRecord, 0)
		for _, p := range posts {
			if p.Collection == sh.Slug {
				members = append(members, p)
			}
		}
		out = append(out, sitemodel.CollectionRecord{CollectionShell: sh, Posts: members})
	}
	return out
}
