// Package eventregistry queries the Event Registry article search API.
package eventregistry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/cognicore/newslens/pkg/newslens/articles"
)

// DefaultEndpoint is the public article search endpoint.
const DefaultEndpoint = "https://eventregistry.org/api/v1/article/getArticles"

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 100

// Client calls the getArticles endpoint.
type Client struct {
	Endpoint string
	APIKey   string
	// PageSize defaults to MaxPageSize.
	PageSize int

	HTTPClient *http.Client
}

// Query selects articles. Empty fields are not sent.
type Query struct {
	Keywords  []string
	Lang      string
	SourceURI []string
	DateStart time.Time
	DateEnd   time.Time
}

type searchRequest struct {
	Action            string   `json:"action"`
	APIKey            string   `json:"apiKey,omitempty"`
	Keyword           []string `json:"keyword,omitempty"`
	KeywordOper       string   `json:"keywordOper,omitempty"`
	Lang              string   `json:"lang,omitempty"`
	SourceURI         []string `json:"sourceUri,omitempty"`
	DateStart         string   `json:"dateStart,omitempty"`
	DateEnd           string   `json:"dateEnd,omitempty"`
	ResultType        string   `json:"resultType"`
	ArticlesPage      int      `json:"articlesPage"`
	ArticlesCount     int      `json:"articlesCount"`
	ArticlesSortBy    string   `json:"articlesSortBy"`
	ArticlesSortByAsc bool     `json:"articlesSortByAsc"`
	IncludeLocation   bool     `json:"includeArticleLocation"`
}

type searchResponse struct {
	Articles *struct {
		Results []articles.RawArticle `json:"results"`
		Pages   int                   `json:"pages"`
		Page    int                   `json:"page"`
	} `json:"articles"`
	Error string `json:"error"`
}

// Articles returns a Source over the query results, most relevant first,
// yielding at most maxItems articles (no limit when maxItems <= 0).
func (c *Client) Articles(q Query, maxItems int) *Iterator {
	return &Iterator{client: c, query: q, maxItems: maxItems}
}

// Iterator pages through search results. It implements articles.Source.
type Iterator struct {
	client   *Client
	query    Query
	maxItems int

	page   int
	pages  int
	buf    []articles.RawArticle
	served int
}

// Next implements articles.Source.
func (it *Iterator) Next(ctx context.Context) (articles.RawArticle, error) {
	if it.maxItems > 0 && it.served >= it.maxItems {
		return articles.RawArticle{}, io.EOF
	}
	for len(it.buf) == 0 {
		if it.page > 0 && it.page >= it.pages {
			return articles.RawArticle{}, io.EOF
		}
		if err := it.fetch(ctx); err != nil {
			return articles.RawArticle{}, err
		}
	}
	item := it.buf[0]
	it.buf = it.buf[1:]
	it.served++
	item.Body = stripHTML(item.Body)
	return item, nil
}

func (it *Iterator) fetch(ctx context.Context) error {
	it.page++
	resp, err := it.client.search(ctx, it.query, it.page)
	if err != nil {
		return err
	}
	it.pages = resp.Articles.Pages
	it.buf = resp.Articles.Results
	if len(it.buf) == 0 {
		// An empty page ends iteration even if pages claims more.
		it.pages = it.page
	}
	return nil
}

func (c *Client) search(ctx context.Context, q Query, page int) (*searchResponse, error) {
	size := c.PageSize
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}
	reqBody := searchRequest{
		Action:            "getArticles",
		APIKey:            c.APIKey,
		Keyword:           q.Keywords,
		Lang:              q.Lang,
		SourceURI:         q.SourceURI,
		ResultType:        "articles",
		ArticlesPage:      page,
		ArticlesCount:     size,
		ArticlesSortBy:    "rel",
		ArticlesSortByAsc: false,
		IncludeLocation:   true,
	}
	if len(q.Keywords) > 1 {
		reqBody.KeywordOper = "and"
	}
	if !q.DateStart.IsZero() {
		reqBody.DateStart = q.DateStart.Format(articles.DateLayout)
	}
	if !q.DateEnd.IsZero() {
		reqBody.DateEnd = q.DateEnd.Format(articles.DateLayout)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("eventregistry: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("eventregistry: decode page %d: %w", page, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("eventregistry: %s", out.Error)
	}
	if out.Articles == nil {
		return nil, fmt.Errorf("eventregistry: page %d: no articles field", page)
	}
	return &out, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// stripHTML returns the text content of s. Plain text passes through.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "br") && buf.Len() > 0 {
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
