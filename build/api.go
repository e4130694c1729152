package build

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/pressroom/content"
)

// apiPageSize is the largest page the public API serves.
const apiPageSize = 100

// APISource reads published content from the public JSON API of a running
// pressroom server, for builds that have no database access.
type APISource struct {
	BaseURL string
	Client  *http.Client
}

// NewAPISource returns a source reading from baseURL.
func NewAPISource(baseURL string) *APISource {
	return &APISource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type articlePage struct {
	Articles []content.Article `json:"articles"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
}

// Collections returns every collection.
func (s *APISource) Collections(ctx context.Context) ([]content.Collection, error) {
	var out []content.Collection
	if err := s.get(ctx, "/api/collections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublishedArticles pages through /api/articles until the last page.
func (s *APISource) PublishedArticles(ctx context.Context) ([]content.Article, error) {
	var out []content.Article
	for page := 1; ; page++ {
		q := url.Values{"limit": {strconv.Itoa(apiPageSize)}, "page": {strconv.Itoa(page)}}
		var p articlePage
		if err := s.get(ctx, "/api/articles", q, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Articles...)
		if page >= p.Pages || len(p.Articles) == 0 {
			return out, nil
		}
	}
}

func (s *APISource) get(ctx context.Context, path string, q url.Values, dst any) error {
	u := s.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("api %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api %s: %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("api %s: decode: %w", path, err)
	}
	return nil
}
