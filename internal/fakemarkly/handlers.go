package fakemarkly

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marklyhq/markly.go/pkg/models"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[req.Email]
	if !ok || rec.password != req.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	tok := newID()
	s.tokens[tok] = req.Email
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	u := models.User{ID: newID(), Username: req.Username, Email: req.Email}
	s.users[req.Email] = &userRecord{user: u, password: req.Password}
	tok := newID()
	s.tokens[tok] = req.Email
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	rec := s.currentUser(r)
	if rec == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, rec.user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.Header.Get("X-Fake-User")
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.users[email]
	if req.Username != nil {
		rec.user.Username = *req.Username
	}
	if req.Password != nil {
		rec.password = *req.Password
	}
	writeJSON(w, http.StatusOK, rec.user)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	collection := q.Get("collection")
	tag := q.Get("tag")
	var only map[string]bool
	if ids := q.Get("bookmarks"); ids != "" {
		only = make(map[string]bool)
		for _, id := range strings.Split(ids, ",") {
			only[id] = true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Bookmark, 0, len(s.bookmarkOrder))
	for _, id := range s.bookmarkOrder {
		b := s.bookmarks[id]
		if category != "" && b.Category != category {
			continue
		}
		if collection != "" && !containsString(b.Collections, collection) {
			continue
		}
		if tag != "" && !containsString(b.Tags, tag) {
			continue
		}
		if only != nil && !only[b.ID] {
			continue
		}
		out = append(out, *b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL           string   `json:"url"`
		Title         string   `json:"title"`
		Summary       string   `json:"summary"`
		TagIDs        []string `json:"tag_ids"`
		CollectionIDs []string `json:"collection_ids"`
		CategoryID    *string  `json:"category_id"`
		IsFav         *bool    `json:"is_fav"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.URL == "" || req.Title == "" {
		http.Error(w, "url and title are required", http.StatusBadRequest)
		return
	}

	rec := s.currentUser(r)

	b := models.Bookmark{
		URL:         req.URL,
		Title:       req.Title,
		Summary:     req.Summary,
		Tags:        req.TagIDs,
		Collections: req.CollectionIDs,
		UserID:      rec.user.ID,
	}
	if req.CategoryID != nil {
		b.Category = *req.CategoryID
	}
	if req.IsFav != nil {
		b.IsFav = *req.IsFav
	}
	writeJSON(w, http.StatusCreated, s.AddBookmark(b))
}

func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	b, ok := s.bookmarks[chi.URLParam(r, "id")]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "bookmark not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, *b)
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL           *string   `json:"url"`
		Title         *string   `json:"title"`
		Summary       *string   `json:"summary"`
		TagIDs        *[]string `json:"tag_ids"`
		CollectionIDs *[]string `json:"collection_ids"`
		CategoryID    *string   `json:"category_id"`
		IsFav         *bool     `json:"is_fav"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[chi.URLParam(r, "id")]
	if !ok {
		http.Error(w, "bookmark not found", http.StatusNotFound)
		return
	}
	if req.URL != nil {
		b.URL = *req.URL
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Summary != nil {
		b.Summary = *req.Summary
	}
	if req.TagIDs != nil {
		b.Tags = *req.TagIDs
	}
	if req.CollectionIDs != nil {
		b.Collections = *req.CollectionIDs
	}
	if req.CategoryID != nil {
		b.Category = *req.CategoryID
	}
	if req.IsFav != nil {
		b.IsFav = *req.IsFav
	}
	writeJSON(w, http.StatusOK, *b)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookmarks[id]; !ok {
		http.Error(w, "bookmark not found", http.StatusNotFound)
		return
	}
	delete(s.bookmarks, id)
	for i, bid := range s.bookmarkOrder {
		if bid == id {
			s.bookmarkOrder = append(s.bookmarkOrder[:i], s.bookmarkOrder[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[chi.URLParam(r, "id")]
	if !ok {
		http.Error(w, "bookmark not found", http.StatusNotFound)
		return
	}
	b.Summary = "Summary of " + b.Title
	writeJSON(w, http.StatusOK, map[string]string{"summary": b.Summary})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.suggestions
	if out == nil {
		out = []models.AISuggestion{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		out = append(out, *s.categories[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Emoji       string `json:"emoji"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Category{ID: newID(), Name: req.Name, Emoji: req.Emoji, Description: req.Description}
	s.categories[c.ID] = &c
	s.categoryOrder = append(s.categoryOrder, c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCollections(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Collection, 0, len(s.collectionOrder))
	for _, id := range s.collectionOrder {
		out = append(out, *s.collections[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Collection{ID: newID(), Name: req.Name}
	s.collections[c.ID] = &c
	s.collectionOrder = append(s.collectionOrder, c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListTags(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, 0, len(s.tagOrder))
	for _, id := range s.tagOrder {
		out = append(out, *s.tags[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Tag{ID: newID(), Name: req.Name}
	s.tags[t.ID] = &t
	s.tagOrder = append(s.tagOrder, t.ID)
	writeJSON(w, http.StatusCreated, t)
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
