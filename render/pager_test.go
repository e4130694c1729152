package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/content"
)

func TestPageURL(t *testing.T) {
	site := Site{ListPath: "/mes-conseils"}

	assert.Equal(t, "/mes-conseils", site.PageURL("", 1))
	assert.Equal(t, "/mes-conseils?page=3", site.PageURL("", 3))
	assert.Equal(t, "/mes-conseils?collection=anxiete", site.PageURL("anxiete", 1))
	assert.Equal(t, "/mes-conseils?collection=anxiete&page=2", site.PageURL("anxiete", 2))
}

func TestPaginationHTML(t *testing.T) {
	site := Site{ListPath: "/mes-conseils"}

	out, err := PaginationHTML(site, "anxiete", Paginate(100, 16, 2))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "2", doc.Find(`[aria-current="page"]`).Text())
	assert.Equal(t, "/mes-conseils?collection=anxiete", doc.Find(".page-prev").AttrOr("href", ""))
	assert.Equal(t, "/mes-conseils?collection=anxiete&page=3", doc.Find(".page-next").AttrOr("href", ""))
	assert.Equal(t, 1, doc.Find(".page-ellipsis").Length())
	assert.Equal(t, "/mes-conseils?collection=anxiete&page=7", doc.Find("a.page-link").Eq(-2).AttrOr("href", ""))
}

func TestPaginationHTMLSinglePage(t *testing.T) {
	out, err := PaginationHTML(Site{ListPath: "/mes-conseils"}, "", Paginate(5, 16, 1))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSpliceListPageFillsPagination(t *testing.T) {
	doc := listDoc(t)
	site := testSite()
	cards := Cards(site, Badges{}, []content.Article{scenarioArticle()})
	widget, err := PaginationHTML(site, "", Paginate(40, 16, 1))
	require.NoError(t, err)

	once, err := SpliceListPage(doc, cards, widget)
	require.NoError(t, err)
	twice, err := SpliceListPage(once, cards, widget)
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(once))
	require.NoError(t, err)
	pager := parsed.Find("#blogPagination")
	assert.Equal(t, 3, pager.Find(".page-link").Not(".page-next").Length())
	assert.Equal(t, site.PageURL("", 2), pager.Find(".page-next").AttrOr("href", ""))
	assert.Equal(t, 1, parsed.Find("#blogGrille article.article-carte").Length())

	end := strings.Index(doc, PaginationOpen)
	tail := doc[strings.Index(doc[end:], "</div>")+end:]
	assert.True(t, strings.HasSuffix(once, tail), "bytes after the pagination container are kept")
}

func TestSplicePaginationMissingContainer(t *testing.T) {
	doc := strings.Replace(listDoc(t), `id="blogPagination"`, `id="other"`, 1)

	_, err := SplicePagination(doc, "")
	assert.ErrorIs(t, err, ErrMissingAnchor)
}

func TestRenderListPageSharesCardMarkup(t *testing.T) {
	site := testSite()
	cards := Cards(site, Badges{}, []content.Article{scenarioArticle()})

	got, err := RenderListPage(site, "anxiete", cards, Paginate(20, 16, 2))
	require.NoError(t, err)

	want, err := CardsHTML(cards)
	require.NoError(t, err)
	assert.Equal(t, want, got.Cards)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 2, got.Pages)
	assert.Contains(t, got.Pagination, `aria-current="page">2<`)
}
