package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marklyhq/markly.go/aggregate"
	"github.com/marklyhq/markly.go/pkg/models"
)

// filterView is the fixture most filter tests share: three bookmarks
// with distinct relations, favorites and creation times.
func filterView() []models.ViewBookmark {
	return []models.ViewBookmark{
		{
			ID: "b1", Title: "React Hooks Guide", URL: "https://react.dev",
			CreatedAt:   day(1),
			Tags:        []models.Tag{tagReact},
			Collections: []models.Collection{colReading},
			Categories:  []models.Category{catDev},
		},
		{
			ID: "b2", Title: "Go Concurrency", URL: "https://go.dev", Summary: "Goroutines and channels",
			IsFav:       true,
			CreatedAt:   day(3),
			Tags:        []models.Tag{tagGo, tagHTTP},
			Collections: []models.Collection{colReading, colWork},
			Categories:  []models.Category{catDev},
		},
		{
			ID: "b3", Title: "Morning News", URL: "https://news.example.com",
			CreatedAt:  day(2),
			Categories: []models.Category{catNews},
		},
	}
}

func ids(view []models.ViewBookmark) []string {
	out := make([]string, 0, len(view))
	for _, vb := range view {
		out = append(out, vb.ID)
	}
	return out
}

func TestFilter_ZeroQueryMatchesAll(t *testing.T) {
	view := filterView()
	got := aggregate.Filter(view, aggregate.Query{})
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(got), "Zero query preserves fetch order")
}

func TestFilter_Text(t *testing.T) {
	view := filterView()

	t.Run("CaseInsensitive", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{Text: "REACT"})
		assert.Equal(t, []string{"b1"}, ids(got))
	})

	t.Run("MatchesURL", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{Text: "news.example"})
		assert.Equal(t, []string{"b3"}, ids(got))
	})

	t.Run("MatchesSummary", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{Text: "goroutines"})
		assert.Equal(t, []string{"b2"}, ids(got))
	})

	t.Run("MatchesTagName", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{Text: "http"})
		// Matches b2 via the tag name and b1/b3 via their https:// URLs.
		assert.Equal(t, []string{"b1", "b2", "b3"}, ids(got))
	})

	t.Run("MatchesCollectionName", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{Text: "work"})
		assert.Equal(t, []string{"b2"}, ids(got))
	})

	t.Run("MatchesCategoryName", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{Text: "dev"})
		// Category name "Dev" plus the react.dev and go.dev URLs.
		assert.Equal(t, []string{"b1", "b2"}, ids(got))
	})

	t.Run("NoMatch", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{Text: "zzz"})
		assert.Empty(t, got)
	})
}

func TestFilter_Predicates(t *testing.T) {
	view := filterView()

	t.Run("Category", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{CategoryID: catDev.ID})
		assert.Equal(t, []string{"b1", "b2"}, ids(got))
	})

	t.Run("Collection", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{CollectionID: colWork.ID})
		assert.Equal(t, []string{"b2"}, ids(got))
	})

	t.Run("SingleTag", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{TagIDs: []string{tagGo.ID}})
		assert.Equal(t, []string{"b2"}, ids(got))
	})

	t.Run("AnyOfTags", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{TagIDs: []string{tagGo.ID, tagReact.ID}})
		assert.Equal(t, []string{"b1", "b2"}, ids(got), "Multiple tag ids match any, not all")
	})

	t.Run("FavoritesOnly", func(t *testing.T) {
		got := aggregate.Filter(view, aggregate.Query{FavoritesOnly: true})
		assert.Equal(t, []string{"b2"}, ids(got))
	})
}

func TestFilter_PredicatesComposeWithAND(t *testing.T) {
	view := filterView()

	got := aggregate.Filter(view, aggregate.Query{
		Text:       "go",
		CategoryID: catDev.ID,
	})
	assert.Equal(t, []string{"b2"}, ids(got))

	got = aggregate.Filter(view, aggregate.Query{
		CategoryID:    catDev.ID,
		FavoritesOnly: true,
		TagIDs:        []string{tagReact.ID},
	})
	assert.Empty(t, got, "A bookmark must satisfy every set predicate")
}

func TestFilter_SortCreatedDesc(t *testing.T) {
	view := filterView()
	got := aggregate.Filter(view, aggregate.Query{Sort: aggregate.SortCreatedDesc})
	assert.Equal(t, []string{"b2", "b3", "b1"}, ids(got))
}

func TestFilter_SortStableForEqualTimestamps(t *testing.T) {
	view := []models.ViewBookmark{
		{ID: "b1", CreatedAt: day(1)},
		{ID: "b2", CreatedAt: day(1)},
		{ID: "b3", CreatedAt: day(1)},
	}
	got := aggregate.Filter(view, aggregate.Query{Sort: aggregate.SortCreatedDesc})
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(got), "Equal timestamps keep input order")
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	view := filterView()
	aggregate.Filter(view, aggregate.Query{Sort: aggregate.SortCreatedDesc, Text: "go"})
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(view))
}

func TestFilter_Idempotent(t *testing.T) {
	q := aggregate.Query{CategoryID: catDev.ID, Sort: aggregate.SortCreatedDesc}
	once := aggregate.Filter(filterView(), q)
	twice := aggregate.Filter(once, q)
	require.Equal(t, once, twice)
}

func TestFilter_EmptyInput(t *testing.T) {
	got := aggregate.Filter(nil, aggregate.Query{Text: "anything"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
