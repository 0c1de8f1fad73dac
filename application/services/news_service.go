package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"relationmap/application/commands"
	"relationmap/application/ports"
	"relationmap/domain/core/entities"
	"relationmap/pkg/common"
	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/observability"
)

// Where points seeded from news land on the canvas
const (
	seedX = 2500
	seedY = 2500

	defaultNewsTotal = 100

	newsFetchTimeout = 30 * time.Second
)

// NewsArticle is an article with the entities recognised in its body
type NewsArticle struct {
	ports.Article
	Entities ports.Entities `json:"entities"`
}

// NewsPage is one page of analysed articles
type NewsPage struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Articles   []NewsArticle `json:"articles"`
}

// NewsService browses news and seeds points from the people, places and
// organizations mentioned in it
type NewsService struct {
	source    ports.ArticleSource
	extractor ports.EntityExtractor
	cache     ports.Cache
	points    *PointService
	ttl       time.Duration
	group     singleflight.Group
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewNewsService creates a news service. A nil source disables it.
func NewNewsService(
	source ports.ArticleSource,
	extractor ports.EntityExtractor,
	cache ports.Cache,
	points *PointService,
	ttl time.Duration,
	metrics *observability.Collector,
	logger *zap.Logger,
) *NewsService {
	return &NewsService{
		source:    source,
		extractor: extractor,
		cache:     cache,
		points:    points,
		ttl:       ttl,
		metrics:   metrics,
		logger:    logger,
	}
}

// Enabled reports whether a news source is configured
func (s *NewsService) Enabled() bool {
	return s != nil && s.source != nil && s.extractor != nil
}

// Page returns a page of articles with their entities. Pages are cached for
// the configured TTL and concurrent misses share one upstream fetch. The
// shared fetch is detached from the caller that started it, so one caller
// going away does not fail the others.
func (s *NewsService) Page(ctx context.Context, page int) (*NewsPage, error) {
	if !s.Enabled() {
		return nil, pkgerrors.NewUnavailableError("news")
	}
	if page < 1 {
		page = 1
	}

	key := fmt.Sprintf("news:page:%d", page)
	if cached, ok := s.cache.Get(ctx, key); ok {
		if p, ok := cached.(*NewsPage); ok {
			s.metrics.RecordCache(true)
			return p, nil
		}
	}
	s.metrics.RecordCache(false)

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), newsFetchTimeout)
		defer cancel()

		p, err := s.fetch(fetchCtx, page)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, p, int(s.ttl.Seconds())); err != nil {
			s.logger.Warn("Failed to cache news page", zap.Int("page", page), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*NewsPage), nil
}

func (s *NewsService) fetch(ctx context.Context, page int) (*NewsPage, error) {
	raw, err := s.source.FetchArticles(ctx, page)
	s.metrics.RecordNewsFetch(err == nil)
	if err != nil {
		s.logger.Error("News fetch failed", zap.Int("page", page), zap.Error(err))
		return nil, classifyFetchError(err)
	}

	total := raw.TotalArticles
	if total <= 0 {
		total = defaultNewsTotal
	}
	pageSize := raw.PageSize
	if pageSize <= 0 {
		pageSize = len(raw.Articles)
	}

	out := &NewsPage{
		Page:       page,
		TotalPages: common.CalculateTotalPages(total, pageSize),
		Articles:   make([]NewsArticle, 0, len(raw.Articles)),
	}
	for _, a := range raw.Articles {
		ents, err := s.extractor.Extract(ctx, a.Title+" "+a.Body)
		if err != nil {
			s.logger.Warn("Entity extraction failed", zap.String("article", a.URI), zap.Error(err))
		}
		out.Articles = append(out.Articles, NewsArticle{Article: a, Entities: ents})
	}
	return out, nil
}

// Seed creates a person point named cmd.Name from a selection in an article.
// The selection must be one of the entities recognised in that article. When
// a point with the same name already exists it is returned instead and
// created is false.
func (s *NewsService) Seed(ctx context.Context, cmd commands.SeedPointCommand) (point *entities.Point, created bool, err error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	page, err := s.Page(ctx, cmd.Page)
	if err != nil {
		return nil, false, err
	}
	if cmd.Article >= len(page.Articles) {
		return nil, false, pkgerrors.NewNotFoundError("article")
	}

	article := page.Articles[cmd.Article]
	if !isRecognised(article.Entities, cmd.Selection) {
		return nil, false, pkgerrors.NewValidationError("selection is not a recognised person, place or organization").
			WithCode("UNRECOGNISED_SELECTION").
			WithDetails(map[string]interface{}{"selection": cmd.Selection})
	}

	name := strings.TrimSpace(cmd.Name)
	existing, err := s.points.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	point, err = s.points.Create(ctx, commands.CreatePointCommand{
		Type: entities.PointTypePerson,
		X:    seedX,
		Y:    seedY,
		Name: name,
	})
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("Point seeded from news",
		zap.String("point_id", point.ID),
		zap.String("article", article.URI),
	)
	return point, true, nil
}

func classifyFetchError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.NewTimeoutError("news fetch").WithCause(err)
	case errors.As(err, &netErr):
		return pkgerrors.NewNetworkError("unable to reach news source", err)
	default:
		return pkgerrors.NewExternalError("unable to fetch news", err)
	}
}

func isRecognised(ents ports.Entities, selection string) bool {
	selection = strings.TrimSpace(selection)
	for _, e := range ents.All() {
		if strings.EqualFold(e, selection) {
			return true
		}
	}
	return false
}
