package aggregate

import (
	"context"
	"fmt"
	"strings"

	markly "github.com/marklyhq/markly.go"
	"github.com/marklyhq/markly.go/pkg/models"
)

// TagCreator creates tags that a suggestion names but the user does not
// have yet. *markly.Client satisfies it.
type TagCreator interface {
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
}

// ResolveSuggestion turns an agent suggestion into a create request.
// Suggestions carry category, collection and tag names; names are
// matched case-insensitively against the snapshot's lookup lists. An
// unknown category or collection name is left unset, while unknown tags
// are created through tags so the suggestion's labels survive saving.
func ResolveSuggestion(ctx context.Context, tags TagCreator, s models.AISuggestion, snap *Snapshot) (markly.CreateBookmarkRequest, error) {
	req := markly.CreateBookmarkRequest{
		URL:           s.URL,
		Title:         s.Title,
		Summary:       s.Summary,
		TagIDs:        []string{},
		CollectionIDs: []string{},
	}

	if s.Category != "" {
		for _, cat := range snap.Categories {
			if strings.EqualFold(cat.Name, s.Category) {
				id := cat.ID
				req.CategoryID = &id
				break
			}
		}
	}

	if s.Collection != "" {
		for _, col := range snap.Collections {
			if strings.EqualFold(col.Name, s.Collection) {
				req.CollectionIDs = append(req.CollectionIDs, col.ID)
				break
			}
		}
	}

	for _, name := range s.Tags {
		if id, ok := findTagByName(snap.Tags, name); ok {
			req.TagIDs = append(req.TagIDs, id)
			continue
		}
		tag, err := tags.CreateTag(ctx, name)
		if err != nil {
			return markly.CreateBookmarkRequest{}, fmt.Errorf("aggregate: create tag %q: %w", name, err)
		}
		req.TagIDs = append(req.TagIDs, tag.ID)
	}

	return req, nil
}

func findTagByName(tags []models.Tag, name string) (string, bool) {
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			return t.ID, true
		}
	}
	return "", false
}
