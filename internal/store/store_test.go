package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"example.com/golfbuddy/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := mapErr(dup)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "users_email_key")

	other := errors.New("connection reset")
	assert.Equal(t, other, mapErr(other))
}

func TestExpectOne(t *testing.T) {
	assert.ErrorIs(t, expectOne(pgconn.NewCommandTag("DELETE 0"), nil), ErrNotFound)
	assert.NoError(t, expectOne(pgconn.NewCommandTag("DELETE 1"), nil))
	assert.ErrorIs(t, expectOne(pgconn.CommandTag{}, pgx.ErrNoRows), ErrNotFound)
}

func TestPgxMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@h:5432/db?sslmode=disable": "pgx5://u:p@h:5432/db?sslmode=disable",
		"postgresql://u@h/db":                      "pgx5://u@h/db",
		"pgx5://already":                           "pgx5://already",
	}
	for in, want := range cases {
		assert.Equal(t, want, pgxMigrateURL(in), in)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, name := range []string{
		"migrations/postgres/000001_init.up.sql",
		"migrations/postgres/000001_init.down.sql",
		"migrations/cassandra/000001_notifications.up.cql",
	} {
		_, err := migrationFS.ReadFile(name)
		assert.NoError(t, err, name)
	}
}

func TestMockStore_DuplicateGuards(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	require.NoError(t, m.CreateUser(ctx, &models.User{Name: "a", Email: "a@a.com"}))
	assert.ErrorIs(t, m.CreateUser(ctx, &models.User{Name: "b", Email: "a@a.com"}), ErrDuplicate)

	require.NoError(t, m.AddFollow(ctx, 1, 2))
	assert.ErrorIs(t, m.AddFollow(ctx, 1, 2), ErrDuplicate)
	assert.ErrorIs(t, m.RemoveFollow(ctx, 2, 1), ErrNotFound)

	require.NoError(t, m.CreateLike(ctx, &models.Like{UserID: 1, PostID: 9}))
	assert.ErrorIs(t, m.CreateLike(ctx, &models.Like{UserID: 1, PostID: 9}), ErrDuplicate)
}

func TestMockStore_DeletePostCascades(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	keep := &models.Post{UserID: 1, Text: "keep", Created: time.Now()}
	gone := &models.Post{UserID: 1, Text: "gone", Created: time.Now()}
	require.NoError(t, m.CreatePost(ctx, keep))
	require.NoError(t, m.CreatePost(ctx, gone))
	require.NoError(t, m.CreateComment(ctx, &models.Comment{PostID: gone.ID, UserID: 2, Text: "x"}))
	require.NoError(t, m.CreateComment(ctx, &models.Comment{PostID: keep.ID, UserID: 2, Text: "y"}))
	require.NoError(t, m.CreateLike(ctx, &models.Like{PostID: gone.ID, UserID: 2}))

	require.NoError(t, m.DeletePost(ctx, gone.ID))

	comments, err := m.ListComments(ctx, gone.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	likes, err := m.ListLikes(ctx, gone.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	comments, err = m.ListComments(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.ErrorIs(t, m.DeletePost(ctx, gone.ID), ErrNotFound)
}

func TestMockStore_FollowOrder(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.CreateUser(ctx, &models.User{Name: name, Email: name + "@x.se"}))
	}
	require.NoError(t, m.AddFollow(ctx, 1, 4))
	require.NoError(t, m.AddFollow(ctx, 1, 2))
	require.NoError(t, m.AddFollow(ctx, 3, 1))

	following, err := m.ListFollowing(ctx, 1)
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, "d", following[0].Name)
	assert.Equal(t, "b", following[1].Name)

	followers, err := m.ListFollowers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "c", followers[0].Name)
}

func TestMockStore_ShouldFail(t *testing.T) {
	m := NewMock()
	m.ShouldFail = true
	_, err := m.GetUser(context.Background(), 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNopNotifications(t *testing.T) {
	var n NotificationStore = NopNotifications{}
	require.NoError(t, n.AddNotification(context.Background(), models.Notification{UserID: 1}))
	items, err := n.ListNotifications(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}
