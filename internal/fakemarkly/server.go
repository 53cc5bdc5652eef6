// Package fakemarkly provides an in-process fake Markly API server for
// testing the SDK without a real backend.
//
// The fake implements every route the client speaks, backed by in-memory
// maps, with two kinds of injection for exercising failure paths:
// FailWith forces a status code on a route, and RespondRaw replaces a
// route's response body verbatim (for malformed-payload tests).
package fakemarkly

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/marklyhq/markly.go/pkg/models"
)

type userRecord struct {
	user     models.User
	password string
}

// Server is a fake Markly API backed by in-memory state. All exported
// methods are safe for concurrent use.
type Server struct {
	mu sync.RWMutex

	http *httptest.Server

	users  map[string]*userRecord // keyed by email
	tokens map[string]string      // token -> email

	bookmarks   map[string]*models.Bookmark
	categories  map[string]*models.Category
	collections map[string]*models.Collection
	tags        map[string]*models.Tag

	// insertion orders keep list responses deterministic
	bookmarkOrder   []string
	categoryOrder   []string
	collectionOrder []string
	tagOrder        []string

	suggestions []models.AISuggestion

	failures  map[string]int    // "METHOD /path" -> forced status
	rawBodies map[string]string // "METHOD /path" -> verbatim body

	clock time.Time
}

// NewServer starts a fake server listening on a random local port.
func NewServer() *Server {
	s := &Server{
		users:       make(map[string]*userRecord),
		tokens:      make(map[string]string),
		bookmarks:   make(map[string]*models.Bookmark),
		categories:  make(map[string]*models.Category),
		collections: make(map[string]*models.Collection),
		tags:        make(map[string]*models.Tag),
		failures:    make(map[string]int),
		rawBodies:   make(map[string]string),
		clock:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.http = httptest.NewServer(s.router())
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.http.URL }

// Close shuts the server down.
func (s *Server) Close() { s.http.Close() }

// FailWith forces every request matching method and path to answer with
// the given status and an empty body. Path is matched exactly.
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// ClearFailure removes a forced failure.
func (s *Server) ClearFailure(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// RespondRaw makes a route answer 200 with the given body verbatim,
// bypassing the handler.
func (s *Server) RespondRaw(method, path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBodies[method+" "+path] = body
}

// SeedUser registers an account directly and returns its profile.
func (s *Server) SeedUser(username, email, password, role string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: newID(), Username: username, Email: email, Role: role}
	s.users[email] = &userRecord{user: u, password: password}
	return u
}

// TokenFor issues a bearer token for a seeded user without going through
// the login endpoint.
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := newID()
	s.tokens[tok] = email
	return tok
}

// AddCategory seeds a category.
func (s *Server) AddCategory(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Category{ID: newID(), Name: name}
	s.categories[c.ID] = &c
	s.categoryOrder = append(s.categoryOrder, c.ID)
	return c
}

// AddCollection seeds a collection.
func (s *Server) AddCollection(name string) models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Collection{ID: newID(), Name: name}
	s.collections[c.ID] = &c
	s.collectionOrder = append(s.collectionOrder, c.ID)
	return c
}

// AddTag seeds a tag.
func (s *Server) AddTag(name string) models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Tag{ID: newID(), Name: name}
	s.tags[t.ID] = &t
	s.tagOrder = append(s.tagOrder, t.ID)
	return t
}

// AddBookmark seeds a bookmark, assigning an id and a monotonically
// advancing creation time when absent.
func (s *Server) AddBookmark(b models.Bookmark) models.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = newID()
	}
	if b.CreatedAt.IsZero() {
		s.clock = s.clock.Add(time.Minute)
		b.CreatedAt = s.clock
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Collections == nil {
		b.Collections = []string{}
	}
	s.bookmarks[b.ID] = &b
	s.bookmarkOrder = append(s.bookmarkOrder, b.ID)
	return b
}

// SetSuggestions replaces the canned agent suggestions.
func (s *Server) SetSuggestions(suggestions []models.AISuggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = suggestions
}

func newID() string {
	return gonanoid.Must(12)
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.injection)

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/me", s.handleMe)
		r.Put("/api/me", s.handleUpdateMe)

		r.Get("/api/bookmarks", s.handleListBookmarks)
		r.Post("/api/bookmarks", s.handleCreateBookmark)
		r.Get("/api/bookmarks/{id}", s.handleGetBookmark)
		r.Put("/api/bookmarks/{id}", s.handleUpdateBookmark)
		r.Delete("/api/bookmarks/{id}", s.handleDeleteBookmark)

		r.Post("/api/agent/summarize/{id}", s.handleSummarize)
		r.Get("/api/agent/suggestions", s.handleSuggestions)

		r.Get("/api/categories", s.handleListCategories)
		r.Post("/api/categories", s.handleCreateCategory)
		r.Get("/api/collections", s.handleListCollections)
		r.Post("/api/collections", s.handleCreateCollection)
		r.Get("/api/tags/user", s.handleListTags)
		r.Post("/api/tags", s.handleCreateTag)
	})

	return r
}

// injection serves configured failures and raw bodies before any real
// handler runs.
func (s *Server) injection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.RLock()
		status, failed := s.failures[key]
		raw, hasRaw := s.rawBodies[key]
		s.mu.RUnlock()
		if failed {
			http.Error(w, http.StatusText(status), status)
			return
		}
		if hasRaw {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(raw))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.RLock()
		email, ok := s.tokens[tok]
		_, userOK := s.users[email]
		s.mu.RUnlock()
		if tok == "" || !ok || !userOK {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		r.Header.Set("X-Fake-User", email)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) currentUser(r *http.Request) *userRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[r.Header.Get("X-Fake-User")]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
