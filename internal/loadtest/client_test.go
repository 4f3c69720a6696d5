package loadtest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"example.com/golfbuddy/cmd/server"
	"example.com/golfbuddy/internal/auth"
	"example.com/golfbuddy/internal/models"
	"example.com/golfbuddy/internal/social"
	"example.com/golfbuddy/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *store.MockNotifications) {
	t.Helper()
	st := store.NewMock()
	notes := store.NewMockNotifications()
	svc := social.NewService(st, auth.NewBcryptHasher(4), nil)
	srv := httptest.NewServer(server.New(svc, auth.NewTokenService("bench", time.Hour), st, notes).Routes(nil))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	return c, notes
}

func TestClient_SignupPostFollow(t *testing.T) {
	c, notes := newTestClient(t)
	ctx := context.Background()

	alice, err := c.Signup(ctx, "alice")
	require.NoError(t, err)
	bob, err := c.Signup(ctx, "bob")
	require.NoError(t, err)
	assert.NotEmpty(t, alice.Token)
	assert.NotEqual(t, alice.UserID, bob.UserID)

	code, err := c.Post(ctx, alice, "Hole in one")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	require.NoError(t, c.Follow(ctx, bob, alice.UserID))

	require.NoError(t, notes.AddNotification(ctx, models.Notification{
		UserID: bob.UserID, ID: "n1", Type: models.EventPostCreated, ActorID: alice.UserID,
	}))
	items, err := c.Notifications(ctx, bob, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, alice.UserID, items[0].ActorID)
}

func TestClient_SignupTwiceFails(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.Signup(ctx, "carol")
	require.NoError(t, err)
	_, err = c.Signup(ctx, "carol")
	assert.ErrorContains(t, err, "status 400")
}

func TestClient_PostTooLong(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	dave, err := c.Signup(ctx, "dave")
	require.NoError(t, err)
	long := make([]byte, social.MaxPostLength+1)
	for i := range long {
		long[i] = 'x'
	}
	code, err := c.Post(ctx, dave, string(long))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestNewClient_MissingCert(t *testing.T) {
	_, err := NewClient("https://localhost", "/nonexistent/cert.pem", "/nonexistent/key.pem")
	assert.Error(t, err)
}
