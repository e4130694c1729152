package render

import (
	"fmt"
	"strings"
)

const (
	// ListContainerOpen is the opening tag prefix of the list container; the
	// prefix still matches after the pre-rendered marker has been added.
	ListContainerOpen = `<div class="blog-grille" id="blogGrille"`
	// PaginationMarker follows the list container in the list document.
	PaginationMarker = "<!-- Pagination -->"
)

// SpliceList replaces the list container of doc with one holding cards. The
// region runs from the container's opening tag through the last </div> before
// the pagination marker; every byte outside it is kept verbatim.
func SpliceList(doc string, cards []Card) (string, error) {
	start := strings.Index(doc, ListContainerOpen)
	if start < 0 {
		return "", fmt.Errorf("%w: list container %s", ErrMissingAnchor, ListContainerOpen)
	}
	rel := strings.Index(doc[start:], PaginationMarker)
	if rel < 0 {
		return "", fmt.Errorf("%w: %s after list container", ErrMissingAnchor, PaginationMarker)
	}
	marker := start + rel
	closing := strings.LastIndex(doc[start:marker], "</div>")
	if closing < 0 {
		return "", fmt.Errorf("%w: closing </div> of list container", ErrMissingAnchor)
	}
	end := start + closing + len("</div>")

	inner, err := CardsHTML(cards)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(doc) + len(inner))
	b.WriteString(doc[:start])
	b.WriteString(ListContainerOpen + ` ` + PrerenderedAttr + `="true">`)
	b.WriteString(inner)
	b.WriteString("            </div>")
	b.WriteString(doc[end:])
	return b.String(), nil
}
