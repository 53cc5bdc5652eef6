package marklyctl

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	markly "github.com/marklyhq/markly.go"
	"github.com/marklyhq/markly.go/aggregate"
	"github.com/marklyhq/markly.go/pkg/models"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("login: -email and -password are required")
	}
	return a.store.Login(ctx, *email, *password)
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := a.flags("register")
	username := fs.String("username", "", "display name (required)")
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("register: -username, -email and -password are required")
	}
	return a.store.Register(ctx, *username, *email, *password)
}

func (a *app) cmdLogout(args []string) error {
	fs := a.flags("logout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.store.Logout()
	return nil
}

func (a *app) cmdWhoami(ctx context.Context, args []string) error {
	fs := a.flags("whoami")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.store.Resume(ctx); err != nil {
		return err
	}
	if err := a.store.Require(); err != nil {
		return fmt.Errorf("not logged in; run marklyctl login")
	}
	u := a.store.User()
	fmt.Fprintf(a.stdout, "%s <%s>", u.Username, u.Email)
	if u.Role != "" {
		fmt.Fprintf(a.stdout, " (%s)", u.Role)
	}
	fmt.Fprintln(a.stdout)
	return nil
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := a.flags("list")
	query := fs.String("query", "", "free-text search")
	category := fs.String("category", "", "category id filter")
	collection := fs.String("collection", "", "collection id filter")
	tags := fs.String("tags", "", "comma-separated tag ids (any match)")
	fav := fs.Bool("fav", false, "favorites only")
	noSort := fs.Bool("no-sort", false, "preserve fetch order instead of newest-first")
	strict := fs.Bool("strict", false, "fail on any metadata fetch error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := a.load(ctx, *strict)
	if err != nil {
		return err
	}

	q := aggregate.Query{
		Text:          *query,
		CategoryID:    *category,
		CollectionID:  *collection,
		FavoritesOnly: *fav,
		Sort:          aggregate.SortCreatedDesc,
	}
	if *tags != "" {
		q.TagIDs = strings.Split(*tags, ",")
	}
	if *noSort {
		q.Sort = aggregate.SortNone
	}

	view := aggregate.Filter(snap.Denormalized(), q)
	a.printBookmarks(view)
	return nil
}

func (a *app) cmdGet(ctx context.Context, args []string) error {
	fs := a.flags("get")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("get: a bookmark id is required")
	}

	b, err := a.client.GetBookmark(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\n%s\n", b.Title, b.URL)
	if b.Summary != "" {
		fmt.Fprintln(a.stdout, b.Summary)
	}
	if len(b.Tags) > 0 {
		fmt.Fprintln(a.stdout, "tags:", strings.Join(b.Tags, ", "))
	}
	return nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := a.flags("add")
	url := fs.String("url", "", "bookmark URL (required)")
	title := fs.String("title", "", "bookmark title (required)")
	summary := fs.String("summary", "", "optional summary")
	category := fs.String("category", "", "category id")
	collections := fs.String("collections", "", "comma-separated collection ids")
	tags := fs.String("tags", "", "comma-separated tag ids")
	fav := fs.Bool("fav", false, "mark as favorite")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := markly.CreateBookmarkRequest{
		URL:           *url,
		Title:         *title,
		Summary:       *summary,
		TagIDs:        splitIDs(*tags),
		CollectionIDs: splitIDs(*collections),
	}
	if *category != "" {
		req.CategoryID = category
	}
	if *fav {
		req.IsFav = fav
	}

	b, err := a.client.CreateBookmark(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, b.ID)
	return nil
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	fs := a.flags("edit")
	url := fs.String("url", "", "new URL")
	title := fs.String("title", "", "new title")
	summary := fs.String("summary", "", "new summary")
	category := fs.String("category", "", "new category id")
	collections := fs.String("collections", "", "new comma-separated collection ids")
	tags := fs.String("tags", "", "new comma-separated tag ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("edit: a bookmark id is required")
	}

	// Only flags the user actually set become part of the partial update.
	var req markly.UpdateBookmarkRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			req.URL = url
		case "title":
			req.Title = title
		case "summary":
			req.Summary = summary
		case "category":
			req.CategoryID = category
		case "collections":
			ids := splitIDs(*collections)
			req.CollectionIDs = &ids
		case "tags":
			ids := splitIDs(*tags)
			req.TagIDs = &ids
		}
	})

	_, err := a.client.UpdateBookmark(ctx, fs.Arg(0), req)
	return err
}

func (a *app) cmdRemove(ctx context.Context, args []string) error {
	fs := a.flags("rm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("rm: a bookmark id is required")
	}
	return a.client.DeleteBookmark(ctx, fs.Arg(0))
}

func (a *app) cmdFavorite(ctx context.Context, args []string) error {
	fs := a.flags("fav")
	off := fs.Bool("off", false, "remove from favorites")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("fav: a bookmark id is required")
	}
	_, err := a.client.SetFavorite(ctx, fs.Arg(0), !*off)
	return err
}

func (a *app) cmdSummarize(ctx context.Context, args []string) error {
	fs := a.flags("summarize")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("summarize: a bookmark id is required")
	}

	summary, err := a.client.Summarize(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, summary)
	return nil
}

func (a *app) cmdSuggest(ctx context.Context, args []string) error {
	fs := a.flags("suggest")
	category := fs.String("category", "", "scope to a category id")
	collection := fs.String("collection", "", "scope to a collection id")
	tag := fs.String("tag", "", "scope to a tag id")
	bookmarks := fs.String("bookmarks", "", "comma-separated bookmark ids to base suggestions on")
	save := fs.Int("save", -1, "save the suggestion at this index (0-based)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := &markly.ListOptions{
		Category:   *category,
		Collection: *collection,
		Tag:        *tag,
		Bookmarks:  splitIDs(*bookmarks),
	}
	suggestions, err := a.client.Suggestions(ctx, opts)
	if err != nil {
		return err
	}

	if *save < 0 {
		for i, s := range suggestions {
			fmt.Fprintf(a.stdout, "[%d] %s\n    %s\n", i, s.Title, s.URL)
			if s.Category != "" {
				fmt.Fprintf(a.stdout, "    category: %s\n", s.Category)
			}
			if len(s.Tags) > 0 {
				fmt.Fprintf(a.stdout, "    tags: %s\n", strings.Join(s.Tags, ", "))
			}
		}
		return nil
	}

	if *save >= len(suggestions) {
		return fmt.Errorf("suggest: index %d out of range (%d suggestions)", *save, len(suggestions))
	}
	snap, err := a.load(ctx, false)
	if err != nil {
		return err
	}
	req, err := aggregate.ResolveSuggestion(ctx, a.client, suggestions[*save], snap)
	if err != nil {
		return err
	}
	b, err := a.client.CreateBookmark(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, b.ID)
	return nil
}

func (a *app) cmdCategories(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "add" {
		fs := a.flags("categories add")
		name := fs.String("name", "", "category name (required)")
		description := fs.String("description", "", "optional description")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("categories add: -name is required")
		}
		c, err := a.client.CreateCategory(ctx, markly.CreateCategoryRequest{Name: *name, Description: *description})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, c.ID)
		return nil
	}

	snap, err := a.load(ctx, false)
	if err != nil {
		return err
	}
	counts := aggregate.CountByCategory(snap.Denormalized(), snap.Categories)
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBOOKMARKS")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.ID, c.Name, c.Count)
	}
	return w.Flush()
}

func (a *app) cmdCollections(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "add" {
		fs := a.flags("collections add")
		name := fs.String("name", "", "collection name (required)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("collections add: -name is required")
		}
		c, err := a.client.CreateCollection(ctx, markly.CreateCollectionRequest{Name: *name})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, c.ID)
		return nil
	}

	snap, err := a.load(ctx, false)
	if err != nil {
		return err
	}
	counts := aggregate.CountByCollection(snap.Denormalized(), snap.Collections)
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBOOKMARKS")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.ID, c.Name, c.Count)
	}
	return w.Flush()
}

func (a *app) cmdTags(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "add" {
		fs := a.flags("tags add")
		name := fs.String("name", "", "tag name (required)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("tags add: -name is required")
		}
		t, err := a.client.CreateTag(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, t.ID)
		return nil
	}

	snap, err := a.load(ctx, false)
	if err != nil {
		return err
	}
	counts := aggregate.TagPopularity(snap.Denormalized(), snap.Tags)
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBOOKMARKS")
	for _, t := range counts {
		fmt.Fprintf(w, "%s\t%s\t%d\n", t.ID, t.Name, t.Count)
	}
	return w.Flush()
}

func (a *app) cmdStats(ctx context.Context, args []string) error {
	fs := a.flags("stats")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := a.load(ctx, false)
	if err != nil {
		return err
	}
	stats := aggregate.ComputeStats(snap.Denormalized(), snap.Categories, snap.Collections)
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "bookmarks\t%d\n", stats.Bookmarks)
	fmt.Fprintf(w, "favorites\t%d\n", stats.Favorites)
	fmt.Fprintf(w, "categories\t%d\n", stats.Categories)
	fmt.Fprintf(w, "collections\t%d\n", stats.Collections)
	return w.Flush()
}

func (a *app) load(ctx context.Context, strict bool) (*aggregate.Snapshot, error) {
	opts := []aggregate.LoaderOption{}
	if strict {
		opts = append(opts, aggregate.Strict())
	}
	return aggregate.NewLoader(a.client, opts...).LoadAll(ctx)
}

func (a *app) printBookmarks(view []models.ViewBookmark) {
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tURL\tCATEGORY\tTAGS\tFAV\tCREATED")
	for _, vb := range view {
		category := ""
		if len(vb.Categories) > 0 {
			category = vb.Categories[0].Name
		}
		tagNames := make([]string, 0, len(vb.Tags))
		for _, t := range vb.Tags {
			tagNames = append(tagNames, t.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			vb.ID, vb.Title, vb.URL, category,
			strings.Join(tagNames, ","),
			strconv.FormatBool(vb.IsFav),
			vb.CreatedAt.Format(time.DateOnly),
		)
	}
	_ = w.Flush()
}

func splitIDs(csv string) []string {
	if csv == "" {
		return []string{}
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
