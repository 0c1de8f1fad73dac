// Package apiclient is a typed HTTP client for the board API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/dto"
	"relationmap/application/services"
	"relationmap/domain/core/entities"
	pkgerrors "relationmap/pkg/errors"
)

// DefaultTimeout bounds every request made by a client built without an
// explicit http.Client
const DefaultTimeout = 15 * time.Second

// Error is a non-2xx response from the API
type Error struct {
	Status    int
	Type      string
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("api error %d (%s): %s [request %s]", e.Status, e.Type, e.Message, e.RequestID)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Type, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// PointDeleted confirms a cascade delete
type PointDeleted struct {
	Message            string `json:"message"`
	RemovedConnections int    `json:"removedConnections"`
	RemovedNotes       int    `json:"removedNotes"`
}

// Seeded is the point a news seed produced
type Seeded struct {
	Point   *entities.Point `json:"point"`
	Created bool            `json:"created"`
}

// Client talks to the board API
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a client for the API rooted at baseURL. A nil httpClient gets
// one with DefaultTimeout.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// ListPoints returns every point
func (c *Client) ListPoints(ctx context.Context) ([]*entities.Point, error) {
	var out []*entities.Point
	if err := c.do(ctx, http.MethodGet, "/points", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePoint stores a new point
func (c *Client) CreatePoint(ctx context.Context, cmd commands.CreatePointCommand) (*entities.Point, error) {
	var out entities.Point
	if err := c.do(ctx, http.MethodPost, "/points", cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePoint merges the set fields of cmd into the point
func (c *Client) UpdatePoint(ctx context.Context, id string, cmd commands.UpdatePointCommand) (*entities.Point, error) {
	var out entities.Point
	if err := c.do(ctx, http.MethodPut, "/points/"+url.PathEscape(id), cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePoint deletes a point with its connections and notes
func (c *Client) DeletePoint(ctx context.Context, id string) (*PointDeleted, error) {
	var out PointDeleted
	if err := c.do(ctx, http.MethodDelete, "/points/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConnections returns every connection with endpoints resolved
func (c *Client) ListConnections(ctx context.Context) ([]dto.ConnectionView, error) {
	var out []dto.ConnectionView
	if err := c.do(ctx, http.MethodGet, "/connections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateConnection links two points
func (c *Client) CreateConnection(ctx context.Context, from, to string) (*dto.ConnectionView, error) {
	var out dto.ConnectionView
	cmd := commands.CreateConnectionCommand{From: from, To: to}
	if err := c.do(ctx, http.MethodPost, "/connections", cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConnection removes a connection
func (c *Client) DeleteConnection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/connections/"+url.PathEscape(id), nil, nil)
}

// ListNotes returns every note with owner and tags resolved
func (c *Client) ListNotes(ctx context.Context) ([]dto.NoteView, error) {
	var out []dto.NoteView
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateNote stores a new note
func (c *Client) CreateNote(ctx context.Context, cmd commands.CreateNoteCommand) (*dto.NoteView, error) {
	var out dto.NoteView
	if err := c.do(ctx, http.MethodPost, "/notes", cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote merges the set fields of cmd into the note
func (c *Client) UpdateNote(ctx context.Context, id string, cmd commands.UpdateNoteCommand) (*entities.Note, error) {
	var out entities.Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote removes a note
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

// ListTags returns every tag
func (c *Client) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	var out []*entities.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTag stores a new tag
func (c *Client) CreateTag(ctx context.Context, cmd commands.CreateTagCommand) (*entities.Tag, error) {
	var out entities.Tag
	if err := c.do(ctx, http.MethodPost, "/tags", cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// News returns a page of articles with their recognised entities
func (c *Client) News(ctx context.Context, page int) (*services.NewsPage, error) {
	var out services.NewsPage
	if err := c.do(ctx, http.MethodGet, "/news?page="+strconv.Itoa(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SeedFromNews creates a point from an entity selected in an article
func (c *Client) SeedFromNews(ctx context.Context, cmd commands.SeedPointCommand) (*Seeded, error) {
	var out Seeded
	if err := c.do(ctx, http.MethodPost, "/news/seed", cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		c.logger.Warn("API request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body pkgerrors.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		apiErr.Type = body.Type
		apiErr.RequestID = body.RequestID
	}
	return apiErr
}
