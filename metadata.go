package markly

import (
	"context"
	"fmt"

	"github.com/marklyhq/markly.go/pkg/models"
)

// CreateCategoryRequest is the payload for POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Emoji       string `json:"emoji,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreateCollectionRequest is the payload for POST /api/collections.
type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateTagRequest is the payload for POST /api/tags.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListCategories fetches the full category lookup list.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.Get(ctx, "/api/categories", &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var out models.Category
	if err := c.Post(ctx, "/api/categories", req, &out); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &out, nil
}

// ListCollections fetches the full collection lookup list.
func (c *Client) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var out []models.Collection
	if err := c.Get(ctx, "/api/collections", &out); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return out, nil
}

// CreateCollection adds a collection.
func (c *Client) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*models.Collection, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var out models.Collection
	if err := c.Post(ctx, "/api/collections", req, &out); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &out, nil
}

// ListUserTags fetches the caller's tag lookup list.
func (c *Client) ListUserTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := c.Get(ctx, "/api/tags/user", &out); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

// CreateTag adds a tag.
func (c *Client) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	req := CreateTagRequest{Name: name}
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var out models.Tag
	if err := c.Post(ctx, "/api/tags", req, &out); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &out, nil
}
