// Package models defines the wire types exchanged with the Markly API,
// plus the denormalized view model produced by the aggregate package.
package models

import "time"

// Roles recognized by the admin guard.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User is the authenticated account profile returned by GET /api/me.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

// IsAdmin reports whether the user may access admin-only surfaces.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}

// Bookmark is the raw record as served by the API. Tags, Collections and
// Category reference lookup entries by id; use aggregate.Denormalize to
// resolve them for display.
type Bookmark struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Tags        []string  `json:"tags"`
	Collections []string  `json:"collections"`
	Category    string    `json:"category,omitempty"`
	IsFav       bool      `json:"is_fav"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id,omitempty"`
}

// Category is a flat lookup entry. The list is fetched in full on every
// load; there is no pagination.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji,omitempty"`
	Description string `json:"description,omitempty"`
}

// Collection is a flat lookup entry.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tag is a flat lookup entry.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ViewBookmark is a bookmark with its relational ids resolved into full
// lookup objects. Categories holds zero or one entry so that all three
// relations share the same slice shape. Ids with no matching lookup entry
// are dropped during denormalization, so a relation slice may be shorter
// than the raw id slice.
type ViewBookmark struct {
	ID          string       `json:"id"`
	URL         string       `json:"url"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary,omitempty"`
	IsFav       bool         `json:"is_fav"`
	CreatedAt   time.Time    `json:"created_at"`
	UserID      string       `json:"user_id,omitempty"`
	Tags        []Tag        `json:"tags"`
	Collections []Collection `json:"collections"`
	Categories  []Category   `json:"categories"`
}

// AISuggestion is a server-generated candidate bookmark not yet saved by
// the user. Category, Collection and Tags carry names, not ids; resolve
// them against the loaded lookup lists before saving.
type AISuggestion struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Category   string   `json:"category"`
	Collection string   `json:"collection"`
	Tags       []string `json:"tags"`
}
