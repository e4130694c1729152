package render

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/content"
)

func listDoc(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/list.html")
	require.NoError(t, err)
	return string(b)
}

func TestSpliceListReplacesOnlyContainer(t *testing.T) {
	doc := listDoc(t)
	a := scenarioArticle()
	cards := Cards(testSite(), NewBadges([]content.Collection{*anxiete()}), []content.Article{a})

	out, err := SpliceList(doc, cards)
	require.NoError(t, err)

	start := strings.Index(doc, ListContainerOpen)
	assert.Equal(t, doc[:start], out[:start], "prefix preserved")
	tail := doc[strings.Index(doc, PaginationMarker)-len("\n\n            "):]
	assert.True(t, strings.HasSuffix(out, tail), "suffix preserved")

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	grid := parsed.Find("#blogGrille")
	assert.Equal(t, "true", grid.AttrOr(PrerenderedAttr, ""))
	assert.Equal(t, 0, grid.Find(".blog-loading").Length())
	card := grid.Find("article.article-carte")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "anxiete", card.AttrOr("data-categorie", ""))
	assert.Equal(t, "/blog/anxiete/calmer-ses-pensees", card.Find("h3 a").AttrOr("href", ""))
	assert.Equal(t, "2 janvier 2025", card.Find(".article-date").Text())
	assert.Equal(t, "Lire →", card.Find(".lire-suite").Text())
	assert.Equal(t, "Quelques pistes.", card.Find("p").Text())
}

func TestSpliceListIsRepeatable(t *testing.T) {
	cards := Cards(testSite(), Badges{}, []content.Article{scenarioArticle()})

	once, err := SpliceList(listDoc(t), cards)
	require.NoError(t, err)
	twice, err := SpliceList(once, cards)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, ListContainerOpen))
}

func TestSpliceListMissingAnchors(t *testing.T) {
	doc := listDoc(t)

	_, err := SpliceList(strings.Replace(doc, PaginationMarker, "", 1), nil)
	assert.ErrorIs(t, err, ErrMissingAnchor)

	_, err = SpliceList(strings.Replace(doc, `id="blogGrille"`, `id="other"`, 1), nil)
	assert.ErrorIs(t, err, ErrMissingAnchor)
}

func TestSitemapSkipsNoIndex(t *testing.T) {
	a := scenarioArticle()
	hidden := scenarioArticle()
	hidden.Slug = "cache"
	hidden.IsIndexed = false

	set := Sitemap(testSite(), []content.Article{a, hidden})

	require.Len(t, set.URLs, 3)
	assert.Equal(t, "https://eliseandmind.com/blog/anxiete/calmer-ses-pensees", set.URLs[2].Loc)
	assert.Equal(t, "2025-01-02", set.URLs[2].LastMod)

	out, err := MarshalSitemap(set)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))
}
