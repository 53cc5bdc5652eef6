// The [markly] package implements a Go client for the Markly bookmark
// service's HTTP JSON API.
//
// # Client
//
// [New] builds a [Client] bound to a single API origin. The client owns
// transport concerns only: JSON encoding, bearer-token injection, error
// normalization, and optional rate limiting. It holds no session state
// of its own; the token is read per request from an injected
// [TokenSource], which keeps the authentication dependency explicit and
// testable.
//
// # Session lifecycle
//
// The [github.com/marklyhq/markly.go/session] package owns the current
// user and the persisted token. Wire a session store and a client
// together like so:
//
//	tokens := session.NewFileStore(dir)
//	client := markly.New(endpoint, markly.WithTokenSource(tokens))
//	store := session.New(client, tokens)
//	client.SetUnauthorizedHook(store.Invalidate)
//
// With the hook in place, any 401 response purges the session before the
// originating call returns an error matching [ErrUnauthorized].
//
// # Aggregation
//
// Bookmarks reference categories, collections and tags by id. The
// [github.com/marklyhq/markly.go/aggregate] package loads the four
// collections concurrently, joins them into display-ready view models,
// and applies search and filter predicates. Those transforms are pure
// functions over already-fetched slices; they never touch the network.
//
// # Errors
//
// Non-2xx responses become [*APIError] carrying the status code and raw
// body. 401 additionally matches [ErrUnauthorized] via [errors.Is].
// A 2xx response whose body does not decode into the expected shape
// becomes [*ParseError] rather than propagating a zero value.
//
// # Experimental packages
//
// The contrib directory contains the marklyctl command-line client,
// which is not covered by the SDK's backward compatibility guarantee.
package markly
