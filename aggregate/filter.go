package aggregate

import (
	"sort"

	"github.com/marklyhq/markly.go/pkg/models"
)

// Sort selects the ordering of filter results.
type Sort int

const (
	// SortNone preserves fetch order.
	SortNone Sort = iota
	// SortCreatedDesc orders newest-first with a stable sort.
	SortCreatedDesc
)

// Query is the per-view filter state. The zero value matches everything
// in fetch order. All set predicates compose with logical AND.
type Query struct {
	// Text matches case-insensitively against title, url, summary and
	// the names of associated tags, collections and categories, OR'd
	// across fields.
	Text string
	// CategoryID keeps bookmarks whose resolved category has this id.
	CategoryID string
	// CollectionID keeps bookmarks belonging to this collection.
	CollectionID string
	// TagIDs keeps bookmarks carrying any of these tags. Single-select
	// views pass one id; multi-select views pass several.
	TagIDs []string
	// FavoritesOnly keeps favorited bookmarks.
	FavoritesOnly bool
	// Sort selects the result ordering.
	Sort Sort
}

// Filter applies q to the view models. The input slice is never
// mutated, and Filter is idempotent: filtering a result with the same
// query returns it unchanged.
func Filter(view []models.ViewBookmark, q Query) []models.ViewBookmark {
	out := make([]models.ViewBookmark, 0, len(view))
	for _, vb := range view {
		if q.matches(vb) {
			out = append(out, vb)
		}
	}
	if q.Sort == SortCreatedDesc {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func (q Query) matches(vb models.ViewBookmark) bool {
	if q.FavoritesOnly && !vb.IsFav {
		return false
	}
	if q.CategoryID != "" && !hasCategory(vb, q.CategoryID) {
		return false
	}
	if q.CollectionID != "" && !hasCollection(vb, q.CollectionID) {
		return false
	}
	if len(q.TagIDs) > 0 && !hasAnyTag(vb, q.TagIDs) {
		return false
	}
	if q.Text != "" && !matchesText(vb, q.Text) {
		return false
	}
	return true
}

func hasCategory(vb models.ViewBookmark, id string) bool {
	for _, c := range vb.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasCollection(vb models.ViewBookmark, id string) bool {
	for _, c := range vb.Collections {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasAnyTag(vb models.ViewBookmark, ids []string) bool {
	for _, id := range ids {
		for _, t := range vb.Tags {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

func matchesText(vb models.ViewBookmark, text string) bool {
	if containsFold(vb.Title, text) || containsFold(vb.URL, text) || containsFold(vb.Summary, text) {
		return true
	}
	for _, t := range vb.Tags {
		if containsFold(t.Name, text) {
			return true
		}
	}
	for _, c := range vb.Collections {
		if containsFold(c.Name, text) {
			return true
		}
	}
	for _, c := range vb.Categories {
		if containsFold(c.Name, text) {
			return true
		}
	}
	return false
}
