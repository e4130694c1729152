package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHeadingsAssignsSequentialIDs(t *testing.T) {
	body := `<p>intro</p><h2>Respirer</h2><p>x</p><h2 class="big">Bouger <em>un peu</em></h2><h3>Sub</h3><H2>Dormir &amp; rêver</H2>`

	out, headings := ExtractHeadings(body)

	require.Len(t, headings, 3)
	assert.Equal(t, []Heading{
		{ID: "section-0", Text: "Respirer"},
		{ID: "section-1", Text: "Bouger un peu"},
		{ID: "section-2", Text: "Dormir & rêver"},
	}, headings)
	assert.Contains(t, out, `<h2 id="section-0">Respirer</h2>`)
	assert.Contains(t, out, `<h2 class="big" id="section-1">Bouger <em>un peu</em></h2>`)
	assert.Contains(t, out, `<H2 id="section-2">Dormir &amp; rêver</H2>`)
	assert.Contains(t, out, `<h3>Sub</h3>`, "other heading levels are untouched")
}

func TestExtractHeadingsIsStableOnOwnOutput(t *testing.T) {
	body := "<h2>Un</h2>\n<h2>Deux</h2>\n<h2>Trois</h2>"

	once, first := ExtractHeadings(body)
	twice, second := ExtractHeadings(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, strings.Count(twice, `id="section-`))
}

func TestExtractHeadingsKeepsExistingIDs(t *testing.T) {
	body := `<h2 id="intro">Intro</h2><h2>Suite</h2>`

	out, headings := ExtractHeadings(body)

	assert.Equal(t, []Heading{{ID: "intro", Text: "Intro"}, {ID: "section-1", Text: "Suite"}}, headings)
	assert.Equal(t, `<h2 id="intro">Intro</h2><h2 id="section-1">Suite</h2>`, out)
}

func TestExtractHeadingsWithoutHeadings(t *testing.T) {
	body := "<p>rien</p><h3>pas un h2</h3>"

	out, headings := ExtractHeadings(body)

	assert.Empty(t, headings)
	assert.Equal(t, body, out)
}

func TestExtractHeadingsMultiline(t *testing.T) {
	out, headings := ExtractHeadings("<h2>\n  Sur deux\n  lignes\n</h2>")

	require.Len(t, headings, 1)
	assert.Equal(t, "Sur deux\n  lignes", headings[0].Text)
	assert.True(t, strings.HasPrefix(out, `<h2 id="section-0">`))
}

func TestExtractHeadingsAvoidsTakenIDs(t *testing.T) {
	body := `<h2 id="section-1">A</h2><h2>B</h2><p id="section-2">x</p><h2>C</h2>`

	out, headings := ExtractHeadings(body)

	assert.Equal(t, []Heading{
		{ID: "section-1", Text: "A"},
		{ID: "section-3", Text: "B"},
		{ID: "section-4", Text: "C"},
	}, headings)
	assert.Equal(t, 1, strings.Count(out, `id="section-1"`))
	assert.Equal(t, 1, strings.Count(out, `id="section-3"`))
}

func TestExtractHeadingsIgnoresIDInsideOtherAttributes(t *testing.T) {
	out, headings := ExtractHeadings(`<h2 title="see id=x" data-id="y">Titre</h2>`)

	assert.Equal(t, []Heading{{ID: "section-0", Text: "Titre"}}, headings)
	assert.Equal(t, `<h2 title="see id=x" data-id="y" id="section-0">Titre</h2>`, out)
}
