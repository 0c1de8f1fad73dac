package ports

import "context"

// Article is a single news article offered for entity seeding
type Article struct {
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// ArticlePage is one page of articles from the news source
type ArticlePage struct {
	Articles      []Article `json:"articles"`
	Page          int       `json:"page"`
	PageSize      int       `json:"pageSize"`
	TotalArticles int       `json:"totalArticles"`
}

// Entities are the named things recognised in a piece of text, each list
// de-duplicated in order of first appearance
type Entities struct {
	People        []string `json:"people"`
	Places        []string `json:"places"`
	Organizations []string `json:"organizations"`
}

// All returns every recognised entity
func (e Entities) All() []string {
	out := make([]string, 0, len(e.People)+len(e.Places)+len(e.Organizations))
	out = append(out, e.People...)
	out = append(out, e.Places...)
	return append(out, e.Organizations...)
}

// ArticleSource fetches keyword-filtered, paginated news
type ArticleSource interface {
	FetchArticles(ctx context.Context, page int) (*ArticlePage, error)
}

// EntityExtractor recognises people, places and organizations in text
type EntityExtractor interface {
	Extract(ctx context.Context, text string) (Entities, error)
}
