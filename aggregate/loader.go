package aggregate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	markly "github.com/marklyhq/markly.go"
	"github.com/marklyhq/markly.go/pkg/models"
)

// Fetcher is the slice of the markly client the loader depends on.
type Fetcher interface {
	ListBookmarks(ctx context.Context, opts *markly.ListOptions) ([]models.Bookmark, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	ListUserTags(ctx context.Context) ([]models.Tag, error)
}

// Snapshot is one consistent fetch of the four collections a view needs.
// Mutations do not patch a snapshot; reload from scratch instead.
type Snapshot struct {
	Bookmarks   []models.Bookmark
	Categories  []models.Category
	Collections []models.Collection
	Tags        []models.Tag
}

// Denormalized joins the snapshot into view models.
func (s *Snapshot) Denormalized() []models.ViewBookmark {
	return Denormalize(s.Bookmarks, s.Categories, s.Collections, s.Tags)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// Strict makes any sub-fetch failure fail the whole load. The default is
// lenient: a failed metadata fetch degrades to an empty lookup list and
// the view renders with reduced filtering, while a failed bookmarks
// fetch always fails the load.
func Strict() LoaderOption {
	return func(l *Loader) { l.strict = true }
}

// WithListOptions scopes the bookmark fetch server-side.
func WithListOptions(opts *markly.ListOptions) LoaderOption {
	return func(l *Loader) { l.listOpts = opts }
}

// WithLoaderLogger enables degradation logging.
func WithLoaderLogger(log zerolog.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// Loader fetches the four collections a dashboard view aggregates.
type Loader struct {
	api      Fetcher
	strict   bool
	listOpts *markly.ListOptions
	log      zerolog.Logger
}

// NewLoader creates a lenient loader over api.
func NewLoader(api Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{api: api, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAll issues the four fetches concurrently and waits for all of them
// to settle before returning; partial results are never handed out.
func (l *Loader) LoadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bookmarks, err := l.api.ListBookmarks(ctx, l.listOpts)
		if err != nil {
			// Without bookmarks there is nothing to render, so this
			// fetch fails the load even in lenient mode.
			return fmt.Errorf("aggregate: load bookmarks: %w", err)
		}
		snap.Bookmarks = bookmarks
		return nil
	})
	g.Go(func() error {
		categories, err := l.api.ListCategories(ctx)
		if err != nil {
			return l.degrade("categories", err)
		}
		snap.Categories = categories
		return nil
	})
	g.Go(func() error {
		collections, err := l.api.ListCollections(ctx)
		if err != nil {
			return l.degrade("collections", err)
		}
		snap.Collections = collections
		return nil
	})
	g.Go(func() error {
		tags, err := l.api.ListUserTags(ctx)
		if err != nil {
			return l.degrade("tags", err)
		}
		snap.Tags = tags
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (l *Loader) degrade(what string, err error) error {
	if l.strict {
		return fmt.Errorf("aggregate: load %s: %w", what, err)
	}
	l.log.Warn().Str("collection", what).Err(err).Msg("metadata fetch degraded to empty list")
	return nil
}
