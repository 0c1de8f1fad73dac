package rest

import (
	"context"

	"relationmap/infrastructure/di"
)

// NewRouterFromContainer builds the router over a wired container
func NewRouterFromContainer(c *di.Container) *Router {
	tags := c.Repositories.Tags
	return NewRouter(
		Services{
			Points:      c.Points,
			Connections: c.Connections,
			Notes:       c.Notes,
			Tags:        c.Tags,
			News:        c.News,
		},
		Options{
			EnableCORS:     c.Config.EnableCORS,
			AllowedOrigins: c.Config.AllowedOrigins,
			RequestTimeout: c.Config.RequestTimeout,
			RateLimit:      c.Config.RateLimitPerMinute,
			Debug:          c.Config.IsDevelopment(),
			Ready: func(ctx context.Context) error {
				_, err := tags.List(ctx)
				return err
			},
		},
		c.Metrics,
		c.Tracer,
		c.Logger,
	)
}
