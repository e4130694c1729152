package content

// Order selects the sort column of an article listing.
type Order string

const (
	// OrderUpdated sorts by last modification, newest first (admin lists).
	OrderUpdated Order = "updated"
	// OrderPublished sorts by publication date, newest first (public lists).
	OrderPublished Order = "published"
)

// ArticleQuery filters and paginates an article listing.
type ArticleQuery struct {
	Status         Status // empty = any
	CollectionID   string
	CollectionSlug string
	Search         string // case-insensitive title match
	Order          Order
	Offset         int
	Limit          int // 0 = no limit
}

// PageQuery returns q positioned on 1-indexed page of size perPage.
func (q ArticleQuery) PageQuery(page, perPage int) ArticleQuery {
	if page < 1 {
		page = 1
	}
	q.Offset = (page - 1) * perPage
	q.Limit = perPage
	return q
}
