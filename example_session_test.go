package markly_test

import (
	"context"
	"fmt"

	markly "github.com/marklyhq/markly.go"
	"github.com/marklyhq/markly.go/aggregate"
	"github.com/marklyhq/markly.go/internal/fakemarkly"
	"github.com/marklyhq/markly.go/pkg/models"
	"github.com/marklyhq/markly.go/session"
)

// Example_sessionAndAggregation wires the client, session store and
// loader together the way an application would, against an in-process
// test server.
func Example_sessionAndAggregation() {
	srv := fakemarkly.NewServer()
	defer srv.Close()
	srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	tag := srv.AddTag("go")
	srv.AddBookmark(models.Bookmark{URL: "https://go.dev", Title: "Go", Tags: []string{tag.ID}, IsFav: true})
	srv.AddBookmark(models.Bookmark{URL: "https://example.com", Title: "Plain"})

	ctx := context.Background()

	tokens := session.NewMemoryStore()
	client := markly.New(srv.URL(), markly.WithTokenSource(tokens))
	store := session.New(client, tokens)
	client.SetUnauthorizedHook(store.Invalidate)

	if err := store.Login(ctx, "alice@example.com", "correct horse"); err != nil {
		fmt.Println("login failed:", err)
		return
	}
	fmt.Println("state:", store.State())

	snap, err := aggregate.NewLoader(client).LoadAll(ctx)
	if err != nil {
		fmt.Println("load failed:", err)
		return
	}

	favorites := aggregate.Filter(snap.Denormalized(), aggregate.Query{FavoritesOnly: true})
	for _, vb := range favorites {
		fmt.Printf("%s [%s]\n", vb.Title, vb.Tags[0].Name)
	}

	// Output:
	// state: authenticated
	// Go [go]
}
