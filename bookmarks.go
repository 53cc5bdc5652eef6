package markly

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/marklyhq/markly.go/pkg/models"
)

// ListOptions scopes bookmark listings and AI suggestions server-side.
// The zero value (or nil) requests the full user-scoped list, which is
// how the dashboard views load: wholesale, filtered client-side.
type ListOptions struct {
	Category   string
	Collection string
	Tag        string
	// Bookmarks restricts agent endpoints to the given bookmark ids.
	Bookmarks []string
}

func (o *ListOptions) query() string {
	if o == nil {
		return ""
	}
	return encodeQuery(map[string]string{
		"category":   o.Category,
		"collection": o.Collection,
		"tag":        o.Tag,
		"bookmarks":  strings.Join(o.Bookmarks, ","),
	})
}

// CreateBookmarkRequest is the payload for POST /api/bookmarks.
type CreateBookmarkRequest struct {
	URL           string   `json:"url" validate:"required,url"`
	Title         string   `json:"title" validate:"required"`
	Summary       string   `json:"summary,omitempty"`
	TagIDs        []string `json:"tag_ids"`
	CollectionIDs []string `json:"collection_ids"`
	CategoryID    *string  `json:"category_id,omitempty"`
	IsFav         *bool    `json:"is_fav,omitempty"`
}

// UpdateBookmarkRequest is the partial payload for PUT /api/bookmarks/:id.
// Nil fields are left untouched by the server.
type UpdateBookmarkRequest struct {
	URL           *string   `json:"url,omitempty" validate:"omitempty,url"`
	Title         *string   `json:"title,omitempty"`
	Summary       *string   `json:"summary,omitempty"`
	TagIDs        *[]string `json:"tag_ids,omitempty"`
	CollectionIDs *[]string `json:"collection_ids,omitempty"`
	CategoryID    *string   `json:"category_id,omitempty"`
	IsFav         *bool     `json:"is_fav,omitempty"`
}

// ListBookmarks fetches the caller's bookmarks, optionally scoped.
func (c *Client) ListBookmarks(ctx context.Context, opts *ListOptions) ([]models.Bookmark, error) {
	var out []models.Bookmark
	if err := c.Get(ctx, "/api/bookmarks"+opts.query(), &out); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return out, nil
}

// GetBookmark fetches a single bookmark by id.
func (c *Client) GetBookmark(ctx context.Context, id string) (*models.Bookmark, error) {
	var out models.Bookmark
	if err := c.Get(ctx, "/api/bookmarks/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("get bookmark %s: %w", id, err)
	}
	return &out, nil
}

// CreateBookmark saves a new bookmark.
func (c *Client) CreateBookmark(ctx context.Context, req CreateBookmarkRequest) (*models.Bookmark, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var out models.Bookmark
	if err := c.Post(ctx, "/api/bookmarks", req, &out); err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return &out, nil
}

// UpdateBookmark applies a partial update.
func (c *Client) UpdateBookmark(ctx context.Context, id string, req UpdateBookmarkRequest) (*models.Bookmark, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var out models.Bookmark
	if err := c.Put(ctx, "/api/bookmarks/"+url.PathEscape(id), req, &out); err != nil {
		return nil, fmt.Errorf("update bookmark %s: %w", id, err)
	}
	return &out, nil
}

// DeleteBookmark removes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/api/bookmarks/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete bookmark %s: %w", id, err)
	}
	return nil
}

// SetFavorite toggles the favorite flag, the way the Favorites view does:
// a partial update touching is_fav only.
func (c *Client) SetFavorite(ctx context.Context, id string, fav bool) (*models.Bookmark, error) {
	return c.UpdateBookmark(ctx, id, UpdateBookmarkRequest{IsFav: &fav})
}

// Summarize asks the agent to generate a summary for a saved bookmark.
func (c *Client) Summarize(ctx context.Context, id string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	if err := c.Post(ctx, "/api/agent/summarize/"+url.PathEscape(id), nil, &out); err != nil {
		return "", fmt.Errorf("summarize bookmark %s: %w", id, err)
	}
	return out.Summary, nil
}

// Suggestions fetches agent-generated candidate bookmarks. The returned
// suggestions carry category, collection and tag names, not ids; see
// aggregate.ResolveSuggestion for turning one into a create request.
func (c *Client) Suggestions(ctx context.Context, opts *ListOptions) ([]models.AISuggestion, error) {
	var out []models.AISuggestion
	if err := c.Get(ctx, "/api/agent/suggestions"+opts.query(), &out); err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	return out, nil
}
