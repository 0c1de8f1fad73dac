// Package news adapts the EventRegistry article API and a named-entity
// recogniser to the application's news ports.
package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"relationmap/application/ports"
)

// Defaults for the EventRegistry client
const (
	DefaultEndpoint = "https://eventregistry.org/api/v1/article/getArticles"
	DefaultKeyword  = "France"
	DefaultPageSize = 10
)

// maxResponseBytes caps how much of an upstream response is read
const maxResponseBytes = 8 << 20

// EventRegistryConfig configures the EventRegistry client
type EventRegistryConfig struct {
	APIKey   string
	Endpoint string
	Keyword  string
	PageSize int
	Timeout  time.Duration
}

// EventRegistry fetches keyword-filtered articles from eventregistry.org
type EventRegistry struct {
	cfg     EventRegistryConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ ports.ArticleSource = (*EventRegistry)(nil)

// NewEventRegistry creates an EventRegistry client. Consecutive upstream
// failures open the circuit for a minute.
func NewEventRegistry(cfg EventRegistryConfig, client *http.Client, logger *zap.Logger) *EventRegistry {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Keyword == "" {
		cfg.Keyword = DefaultKeyword
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "eventregistry",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &EventRegistry{cfg: cfg, client: client, breaker: breaker, logger: logger}
}

type getArticlesRequest struct {
	Action                 string   `json:"action"`
	Keyword                string   `json:"keyword"`
	IgnoreSourceGroupURI   string   `json:"ignoreSourceGroupUri"`
	ArticlesPage           int      `json:"articlesPage"`
	ArticlesCount          int      `json:"articlesCount"`
	ArticlesSortBy         string   `json:"articlesSortBy"`
	ArticlesSortByAsc      bool     `json:"articlesSortByAsc"`
	DataType               []string `json:"dataType"`
	ForceMaxDataTimeWindow int      `json:"forceMaxDataTimeWindow"`
	ResultType             string   `json:"resultType"`
	APIKey                 string   `json:"apiKey"`
}

type getArticlesResponse struct {
	Articles *struct {
		Results       []articleResult `json:"results"`
		TotalResults  int             `json:"totalResults"`
		TotalArticles int             `json:"totalArticles"`
	} `json:"articles"`
	Error string `json:"error"`
}

type articleResult struct {
	URI      string `json:"uri"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	URL      string `json:"url"`
	DateTime string `json:"dateTime"`
	Source   struct {
		Title string `json:"title"`
	} `json:"source"`
}

// FetchArticles returns one page of articles, newest first
func (e *EventRegistry) FetchArticles(ctx context.Context, page int) (*ports.ArticlePage, error) {
	if page < 1 {
		page = 1
	}

	v, err := e.breaker.Execute(func() (interface{}, error) {
		return e.fetch(ctx, page)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("news source unavailable: %w", err)
	}
	if err != nil {
		return nil, err
	}
	return v.(*ports.ArticlePage), nil
}

func (e *EventRegistry) fetch(ctx context.Context, page int) (*ports.ArticlePage, error) {
	body, err := json.Marshal(getArticlesRequest{
		Action:                 "getArticles",
		Keyword:                e.cfg.Keyword,
		IgnoreSourceGroupURI:   "paywall/paywalled_sources",
		ArticlesPage:           page,
		ArticlesCount:          e.cfg.PageSize,
		ArticlesSortBy:         "date",
		DataType:               []string{"news", "pr"},
		ForceMaxDataTimeWindow: 31,
		ResultType:             "articles",
		APIKey:                 e.cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news source returned status %d", resp.StatusCode)
	}

	var decoded getArticlesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("news source error: %s", decoded.Error)
	}

	out := &ports.ArticlePage{Page: page, PageSize: e.cfg.PageSize, Articles: []ports.Article{}}
	if decoded.Articles == nil {
		return out, nil
	}

	out.TotalArticles = decoded.Articles.TotalResults
	if out.TotalArticles == 0 {
		out.TotalArticles = decoded.Articles.TotalArticles
	}
	for _, r := range decoded.Articles.Results {
		out.Articles = append(out.Articles, ports.Article{
			URI:         r.URI,
			Title:       r.Title,
			Body:        e.cleanBody(r.Body, r.URL),
			URL:         r.URL,
			Source:      r.Source.Title,
			PublishedAt: r.DateTime,
		})
	}

	e.logger.Debug("Fetched articles",
		zap.Int("page", page),
		zap.Int("count", len(out.Articles)),
		zap.Int("total", out.TotalArticles),
	)
	return out, nil
}

// cleanBody extracts readable text when an article body is HTML
func (e *EventRegistry) cleanBody(body, rawURL string) string {
	if !looksLikeHTML(body) {
		return body
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		pageURL = &url.URL{Scheme: "https", Host: "eventregistry.org"}
	}

	article, err := readability.FromReader(strings.NewReader(body), pageURL)
	if err != nil {
		e.logger.Debug("Readability failed, keeping raw body", zap.String("url", rawURL), zap.Error(err))
		return body
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil || strings.TrimSpace(builder.String()) == "" {
		return body
	}
	return strings.TrimSpace(builder.String())
}

func looksLikeHTML(s string) bool {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '<' {
			continue
		}
		c := s[i+1]
		if c == '/' || c == '!' || (c|0x20 >= 'a' && c|0x20 <= 'z') {
			return strings.IndexByte(s[i:], '>') > 0
		}
	}
	return false
}
