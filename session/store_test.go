package session_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	markly "github.com/marklyhq/markly.go"
	"github.com/marklyhq/markly.go/internal/fakemarkly"
	"github.com/marklyhq/markly.go/session"
)

// eventRecorder collects notifier events in order.
type eventRecorder struct {
	events []session.Event
}

func (r *eventRecorder) Notify(e session.Event) { r.events = append(r.events, e) }

func (r *eventRecorder) last(t *testing.T) session.Event {
	t.Helper()
	require.NotEmpty(t, r.events, "expected at least one event")
	return r.events[len(r.events)-1]
}

// harness wires the real client, a memory token store and the session
// store together the way an application would.
type harness struct {
	srv    *fakemarkly.Server
	client *markly.Client
	tokens *session.MemoryStore
	store  *session.Store
	events *eventRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := fakemarkly.NewServer()
	t.Cleanup(srv.Close)

	tokens := session.NewMemoryStore()
	client := markly.New(srv.URL(),
		markly.WithLogger(zerolog.Nop()),
		markly.WithTokenSource(tokens),
	)
	events := &eventRecorder{}
	store := session.New(client, tokens, session.WithNotifier(events))
	client.SetUnauthorizedHook(store.Invalidate)

	return &harness{srv: srv, client: client, tokens: tokens, store: store, events: events}
}

func TestStore_InitialState(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, session.StateUnknown, h.store.State())
	assert.True(t, h.store.IsLoading())
	assert.False(t, h.store.IsAuthenticated())
	assert.Nil(t, h.store.User())
}

func TestStore_Resume(t *testing.T) {
	ctx := context.Background()

	t.Run("NoToken", func(t *testing.T) {
		h := newHarness(t)
		state, err := h.store.Resume(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.StateAnonymous, state)
		assert.False(t, h.store.IsLoading())
		assert.Empty(t, h.events.events, "A silent anonymous resume emits no event")
	})

	t.Run("ValidToken", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")
		require.NoError(t, h.tokens.Save(h.srv.TokenFor("alice@example.com")))

		state, err := h.store.Resume(ctx)
		require.NoError(t, err)
		assert.Equal(t, session.StateAuthenticated, state)
		require.NotNil(t, h.store.User())
		assert.Equal(t, "alice", h.store.User().Username)

		e := h.events.last(t)
		assert.Equal(t, session.EventResume, e.Kind)
		assert.True(t, e.Success)
	})

	t.Run("StaleTokenIsPurged", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.tokens.Save("long-expired"))

		state, err := h.store.Resume(ctx)
		require.Error(t, err)
		assert.Equal(t, session.StateAnonymous, state)
		assert.Empty(t, h.tokens.Token(), "A rejected token must not survive to be retried")

		e := h.events.last(t)
		assert.Equal(t, session.EventResume, e.Kind)
		assert.False(t, e.Success)
	})
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")

		require.NoError(t, h.store.Login(ctx, "alice@example.com", "correct horse"))
		assert.Equal(t, session.StateAuthenticated, h.store.State())
		assert.NotEmpty(t, h.tokens.Token(), "Token should be persisted on success")

		e := h.events.last(t)
		assert.Equal(t, session.EventLogin, e.Kind)
		assert.True(t, e.Success)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")

		err := h.store.Login(ctx, "alice@example.com", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, markly.ErrUnauthorized)
		assert.Equal(t, session.StateAnonymous, h.store.State())
		assert.Empty(t, h.tokens.Token())
		assert.False(t, h.events.last(t).Success)
	})

	t.Run("ProfileFetchFailureRollsBackToken", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")
		h.srv.FailWith("GET", "/api/me", 500)

		err := h.store.Login(ctx, "alice@example.com", "correct horse")
		require.Error(t, err)
		assert.Equal(t, session.StateAnonymous, h.store.State())
		assert.Empty(t, h.tokens.Token(), "Half-finished login must not leave a persisted token")
		assert.Nil(t, h.store.User())
	})

	t.Run("EmptyTokenResponse", func(t *testing.T) {
		h := newHarness(t)
		h.srv.RespondRaw("POST", "/api/auth/login", `{"token":""}`)

		err := h.store.Login(ctx, "alice@example.com", "correct horse")
		require.Error(t, err)
		assert.ErrorIs(t, err, markly.ErrNoToken)
		assert.Equal(t, session.StateAnonymous, h.store.State())
	})
}

func TestStore_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.Register(ctx, "newbie", "new@example.com", "longenough"))
		assert.Equal(t, session.StateAuthenticated, h.store.State())
		assert.Equal(t, "newbie", h.store.User().Username)

		e := h.events.last(t)
		assert.Equal(t, session.EventRegister, e.Kind)
		assert.True(t, e.Success)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SeedUser("taken", "new@example.com", "longenough", "")

		err := h.store.Register(ctx, "newbie", "new@example.com", "longenough")
		require.Error(t, err)
		assert.Equal(t, session.StateAnonymous, h.store.State())
		assert.Empty(t, h.tokens.Token())
	})
}

func TestStore_Logout(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	require.NoError(t, h.store.Login(context.Background(), "alice@example.com", "correct horse"))

	h.store.Logout()
	assert.Equal(t, session.StateAnonymous, h.store.State())
	assert.Empty(t, h.tokens.Token())
	assert.Nil(t, h.store.User())

	e := h.events.last(t)
	assert.Equal(t, session.EventLogout, e.Kind)
	assert.True(t, e.Success)
}

func TestStore_UnauthorizedResponsePurgesSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	require.NoError(t, h.store.Login(ctx, "alice@example.com", "correct horse"))
	eventsBefore := len(h.events.events)

	// Any endpoint answering 401 drops the session through the hook.
	h.srv.FailWith("GET", "/api/bookmarks", 401)
	_, err := h.client.ListBookmarks(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, markly.ErrUnauthorized)

	assert.Equal(t, session.StateAnonymous, h.store.State())
	assert.Empty(t, h.tokens.Token())
	assert.Len(t, h.events.events, eventsBefore, "Invalidate is silent, no event is emitted")
}

func TestStore_Require(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.store.Require(), session.ErrNotAuthenticated)

	h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	require.NoError(t, h.store.Login(context.Background(), "alice@example.com", "correct horse"))
	assert.NoError(t, h.store.Require())
}

func TestStore_IsAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("RegularUser", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")
		require.NoError(t, h.store.Login(ctx, "alice@example.com", "correct horse"))
		assert.False(t, h.store.IsAdmin())
	})

	t.Run("Admin", func(t *testing.T) {
		h := newHarness(t)
		h.srv.SeedUser("root", "root@example.com", "correct horse", "admin")
		require.NoError(t, h.store.Login(ctx, "root@example.com", "correct horse"))
		assert.True(t, h.store.IsAdmin())
	})

	t.Run("Anonymous", func(t *testing.T) {
		h := newHarness(t)
		assert.False(t, h.store.IsAdmin())
	})
}

func TestStore_UserReturnsCopy(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	require.NoError(t, h.store.Login(context.Background(), "alice@example.com", "correct horse"))

	u := h.store.User()
	u.Username = "mutated"
	assert.Equal(t, "alice", h.store.User().Username, "Callers must not reach the cached profile")
}
