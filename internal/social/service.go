// Package social implements the golfbuddy domain: accounts, the follow graph,
// posts with their comments and likes, and the feed.
package social

import (
	"context"
	"errors"
	"time"

	"example.com/golfbuddy/internal/auth"
	"example.com/golfbuddy/internal/logger"
	"example.com/golfbuddy/internal/models"
	"example.com/golfbuddy/internal/store"
	"example.com/golfbuddy/internal/validate"
	"github.com/google/uuid"
)

var logg = logger.New("social")

// Publisher delivers activity events to the pipeline.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.Event) error { return nil }

// Service runs every domain operation against the store.
type Service struct {
	store  store.StoreInterface
	val    *validate.Validator
	hasher auth.Hasher
	events Publisher
	now    func() time.Time
}

func NewService(st store.StoreInterface, hasher auth.Hasher, events Publisher) *Service {
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{
		store:  st,
		val:    validate.New(emailLookup{st}),
		hasher: hasher,
		events: events,
		now:    time.Now,
	}
}

// emailLookup answers uniqueness checks from the user table.
type emailLookup struct {
	st store.StoreInterface
}

func (l emailLookup) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := l.st.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// publish never fails the caller; the mutation is already committed.
func (s *Service) publish(ctx context.Context, typ models.EventType, actor, target, post int64) {
	ev := models.Event{
		ID:           uuid.NewString(),
		Type:         typ,
		ActorID:      actor,
		TargetUserID: target,
		PostID:       post,
		Created:      s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		logg.Warn("Failed to publish "+string(typ)+" event", err)
	}
}

// userOr loads a user, turning a missing row into a NotFoundError carrying msg.
func (s *Service) userOr(ctx context.Context, id int64, msg string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(msg)
	}
	return u, err
}

func (s *Service) postOr(ctx context.Context, id int64, msg string) (*models.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(msg)
	}
	return p, err
}

// RequireUser reports a NotFoundError when id does not name a user.
func (s *Service) RequireUser(ctx context.Context, id int64) error {
	_, err := s.userOr(ctx, id, MsgNoSuchUser)
	return err
}
