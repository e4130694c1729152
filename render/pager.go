package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PaginationOpen is the opening tag prefix of the pagination container that
// follows PaginationMarker in the list document.
const PaginationOpen = `<div class="blog-pagination" id="blogPagination"`

type pagerLink struct {
	Number   int
	Href     string
	Current  bool
	Ellipsis bool
}

type pagerView struct {
	Prev  string
	Next  string
	Links []pagerLink
}

// PageURL is the list page URL of page within collectionSlug. Page 1 and an
// empty collection are left out of the query.
func (s Site) PageURL(collectionSlug string, page int) string {
	q := url.Values{}
	if collectionSlug != "" {
		q.Set("collection", collectionSlug)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return s.ListPath
	}
	return s.ListPath + "?" + q.Encode()
}

// PaginationHTML renders the pagination widget of p for the list filtered on
// collectionSlug. A single page renders as the empty string.
func PaginationHTML(site Site, collectionSlug string, p Pagination) (string, error) {
	var v pagerView
	for _, l := range p.Links() {
		if l.Number == 0 {
			v.Links = append(v.Links, pagerLink{Ellipsis: true})
			continue
		}
		v.Links = append(v.Links, pagerLink{Number: l.Number, Current: l.Current, Href: site.PageURL(collectionSlug, l.Number)})
	}
	if p.HasPrev() {
		v.Prev = site.PageURL(collectionSlug, p.Page-1)
	}
	if p.HasNext() {
		v.Next = site.PageURL(collectionSlug, p.Page+1)
	}
	return executeFragment("pagination", v)
}

// SplicePagination replaces the contents of the pagination container of doc
// with widget. The container must follow PaginationMarker and hold no nested
// <div>; every byte outside its contents is kept verbatim.
func SplicePagination(doc, widget string) (string, error) {
	marker := strings.Index(doc, PaginationMarker)
	if marker < 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingAnchor, PaginationMarker)
	}
	rel := strings.Index(doc[marker:], PaginationOpen)
	if rel < 0 {
		return "", fmt.Errorf("%w: pagination container %s", ErrMissingAnchor, PaginationOpen)
	}
	open := marker + rel
	gt := strings.IndexByte(doc[open:], '>')
	if gt < 0 {
		return "", fmt.Errorf("%w: pagination container %s", ErrMissingAnchor, PaginationOpen)
	}
	inner := open + gt + 1
	closing := strings.Index(doc[inner:], "</div>")
	if closing < 0 {
		return "", fmt.Errorf("%w: closing </div> of pagination container", ErrMissingAnchor)
	}
	return doc[:inner] + widget + doc[inner+closing:], nil
}

// ListFragments is the list page content for one page of a listing, shared by
// the build, the server list page and client-side hydration.
type ListFragments struct {
	Cards      string `json:"cards"`
	Pagination string `json:"pagination"`
	Page       int    `json:"page"`
	Pages      int    `json:"pages"`
	Total      int    `json:"total"`
}

// RenderListPage renders the cards and pagination widget of p, whose articles
// are cards, for the list filtered on collectionSlug.
func RenderListPage(site Site, collectionSlug string, cards []Card, p Pagination) (ListFragments, error) {
	out := ListFragments{Page: p.Page, Pages: p.Pages, Total: p.Total}
	var err error
	if out.Cards, err = CardsHTML(cards); err != nil {
		return out, err
	}
	if out.Pagination, err = PaginationHTML(site, collectionSlug, p); err != nil {
		return out, err
	}
	return out, nil
}

// SpliceListPage fills both the list container and the pagination container
// of doc.
func SpliceListPage(doc string, cards []Card, widget string) (string, error) {
	out, err := SpliceList(doc, cards)
	if err != nil {
		return "", err
	}
	return SplicePagination(out, widget)
}
