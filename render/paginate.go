package render

// Pagination describes one page of a listing of Total items.
type Pagination struct {
	Page   int // 1-indexed, clamped to [1, Pages]
	Size   int
	Total  int
	Pages  int // ceil(Total/Size); 0 when Total is 0
	Offset int
	Count  int // items on this page
}

// Paginate computes the page window for page within total items of size per page.
// Out of range pages are clamped to the nearest valid page.
func Paginate(total, size, page int) Pagination {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	pages := (total + size - 1) / size
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	p := Pagination{Page: page, Size: size, Total: total, Pages: pages}
	p.Offset = (page - 1) * size
	if rest := total - p.Offset; rest > 0 {
		p.Count = min(size, rest)
	}
	return p
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.Pages }

// PageLink is one entry of a pagination widget. Number 0 is an ellipsis.
type PageLink struct {
	Number  int
	Current bool
}

// Links returns the widget entries: the current page with two neighbours on
// each side, plus the first and last page separated by ellipses when needed.
func (p Pagination) Links() []PageLink {
	if p.Pages <= 1 {
		return nil
	}
	start := max(1, p.Page-2)
	end := min(p.Pages, p.Page+2)
	var links []PageLink
	if start > 1 {
		links = append(links, PageLink{Number: 1})
		if start > 2 {
			links = append(links, PageLink{})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, PageLink{Number: i, Current: i == p.Page})
	}
	if end < p.Pages {
		if end < p.Pages-1 {
			links = append(links, PageLink{})
		}
		links = append(links, PageLink{Number: p.Pages})
	}
	return links
}
