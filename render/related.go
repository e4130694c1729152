package render

import (
	"sort"

	"github.com/eringen/pressroom/content"
)

// SidebarSize is the number of related articles shown next to an article.
const SidebarSize = 3

// Related picks up to n articles to show alongside current: articles of the
// same collection first, then the rest, each group newest first. Articles with
// equal publication dates keep their input order.
func Related(current content.Article, all []content.Article, n int) []content.Article {
	if n <= 0 {
		return nil
	}
	var same, other []content.Article
	for _, a := range all {
		if a.ID == current.ID {
			continue
		}
		if current.CollectionID != "" && a.CollectionID == current.CollectionID {
			same = append(same, a)
		} else {
			other = append(other, a)
		}
	}
	byRecency(same)
	byRecency(other)

	out := make([]content.Article, 0, n)
	for _, group := range [][]content.Article{same, other} {
		for _, a := range group {
			if len(out) == n {
				return out
			}
			out = append(out, a)
		}
	}
	return out
}

func byRecency(list []content.Article) {
	sort.SliceStable(list, func(i, j int) bool {
		return publishedUnix(list[i]) > publishedUnix(list[j])
	})
}

func publishedUnix(a content.Article) int64 {
	if a.PublishedAt == nil {
		return 0
	}
	return a.PublishedAt.UnixNano()
}
