// Package aggregate joins raw bookmark records with their lookup tables
// into display-ready view models and derives filtered and counted views
// of them.
//
// Every function here is a pure, synchronous transform over
// already-fetched slices: no network calls, no caching, inputs never
// mutated. The one exception is Loader, which performs the initial
// concurrent fetch and hands back a Snapshot for the pure functions to
// chew on.
package aggregate

import (
	"sort"
	"strings"

	"github.com/marklyhq/markly.go/pkg/models"
)

// Denormalize resolves each bookmark's tag, collection and category ids
// against the lookup lists. Lookups are linear scans; the lists are
// user-scoped and run tens to low hundreds of entries.
//
// An id with no matching lookup entry is dropped, not errored: a failed
// or stale lookup list degrades the view, it does not break it. Category
// resolves to a zero-or-one-element slice so all three relations share
// the same shape.
func Denormalize(bookmarks []models.Bookmark, categories []models.Category, collections []models.Collection, tags []models.Tag) []models.ViewBookmark {
	view := make([]models.ViewBookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		vb := models.ViewBookmark{
			ID:          b.ID,
			URL:         b.URL,
			Title:       b.Title,
			Summary:     b.Summary,
			IsFav:       b.IsFav,
			CreatedAt:   b.CreatedAt,
			UserID:      b.UserID,
			Tags:        make([]models.Tag, 0, len(b.Tags)),
			Collections: make([]models.Collection, 0, len(b.Collections)),
			Categories:  make([]models.Category, 0, 1),
		}
		for _, id := range b.Tags {
			if tag, ok := findTag(tags, id); ok {
				vb.Tags = append(vb.Tags, tag)
			}
		}
		for _, id := range b.Collections {
			if col, ok := findCollection(collections, id); ok {
				vb.Collections = append(vb.Collections, col)
			}
		}
		if b.Category != "" {
			if cat, ok := findCategory(categories, b.Category); ok {
				vb.Categories = append(vb.Categories, cat)
			}
		}
		view = append(view, vb)
	}
	return view
}

func findTag(tags []models.Tag, id string) (models.Tag, bool) {
	for _, t := range tags {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tag{}, false
}

func findCollection(collections []models.Collection, id string) (models.Collection, bool) {
	for _, c := range collections {
		if c.ID == id {
			return c, true
		}
	}
	return models.Collection{}, false
}

func findCategory(categories []models.Category, id string) (models.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// CategoryCount pairs a category with the number of loaded bookmarks
// referencing it.
type CategoryCount struct {
	models.Category
	Count int
}

// CountByCategory computes per-category bookmark counts. Purely derived;
// recomputed on demand, never cached.
func CountByCategory(view []models.ViewBookmark, categories []models.Category) []CategoryCount {
	counts := make([]CategoryCount, 0, len(categories))
	for _, cat := range categories {
		n := 0
		for _, vb := range view {
			for _, c := range vb.Categories {
				if c.ID == cat.ID {
					n++
					break
				}
			}
		}
		counts = append(counts, CategoryCount{Category: cat, Count: n})
	}
	return counts
}

// CollectionCount pairs a collection with the number of loaded bookmarks
// referencing it.
type CollectionCount struct {
	models.Collection
	Count int
}

// CountByCollection computes per-collection bookmark counts.
func CountByCollection(view []models.ViewBookmark, collections []models.Collection) []CollectionCount {
	counts := make([]CollectionCount, 0, len(collections))
	for _, col := range collections {
		n := 0
		for _, vb := range view {
			for _, c := range vb.Collections {
				if c.ID == col.ID {
					n++
					break
				}
			}
		}
		counts = append(counts, CollectionCount{Collection: col, Count: n})
	}
	return counts
}

// TagCount pairs a tag with its usage count.
type TagCount struct {
	models.Tag
	Count int
}

// TagPopularity computes tag usage counts sorted most-used first, the
// ordering the Tags view renders. The sort is stable, so equally popular
// tags keep their lookup-list order.
func TagPopularity(view []models.ViewBookmark, tags []models.Tag) []TagCount {
	counts := make([]TagCount, 0, len(tags))
	for _, tag := range tags {
		n := 0
		for _, vb := range view {
			for _, t := range vb.Tags {
				if t.ID == tag.ID {
					n++
					break
				}
			}
		}
		counts = append(counts, TagCount{Tag: tag, Count: n})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Stats are the dashboard headline numbers.
type Stats struct {
	Bookmarks   int
	Favorites   int
	Categories  int
	Collections int
}

// ComputeStats derives the dashboard counters from a loaded snapshot.
func ComputeStats(view []models.ViewBookmark, categories []models.Category, collections []models.Collection) Stats {
	s := Stats{
		Bookmarks:   len(view),
		Categories:  len(categories),
		Collections: len(collections),
	}
	for _, vb := range view {
		if vb.IsFav {
			s.Favorites++
		}
	}
	return s
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
