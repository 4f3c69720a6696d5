package store

import (
	"context"
	"errors"
	"time"

	"example.com/golfbuddy/internal/logger"
	"example.com/golfbuddy/internal/models"
)

var logg = logger.New("store")

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("store: duplicate")
)

// --- Interfaces ---

// StoreInterface is the relational store every request handler and the
// worker operate on. Lookups are by id; cascades are explicit.
type StoreInterface interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	AddFollow(ctx context.Context, userID, followedID int64) error
	RemoveFollow(ctx context.Context, userID, followedID int64) error
	IsFollowing(ctx context.Context, userID, followedID int64) (bool, error)
	ListFollowing(ctx context.Context, userID int64) ([]models.User, error)
	ListFollowers(ctx context.Context, userID int64) ([]models.User, error)

	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPostsByUser(ctx context.Context, userID int64) ([]models.Post, error)
	UpdatePostText(ctx context.Context, id int64, text string) error
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, c *models.Comment) error
	FindComment(ctx context.Context, postID, userID, commentID int64) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	CreateLike(ctx context.Context, l *models.Like) error
	FindLike(ctx context.Context, userID, postID int64) (*models.Like, error)
	GetLike(ctx context.Context, id int64) (*models.Like, error)
	ListLikes(ctx context.Context, postID int64) ([]models.Like, error)
	DeleteLike(ctx context.Context, id int64) error

	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	Close()
}

// NotificationStore keeps per-user notification timelines.
type NotificationStore interface {
	AddNotification(ctx context.Context, n models.Notification) error
	ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	Close()
}

// NopNotifications is used when no Cassandra cluster is configured.
type NopNotifications struct{}

func (NopNotifications) AddNotification(context.Context, models.Notification) error { return nil }

func (NopNotifications) ListNotifications(context.Context, int64, int) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (NopNotifications) Close() {}
