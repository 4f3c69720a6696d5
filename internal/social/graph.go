package social

import (
	"context"
	"errors"

	"example.com/golfbuddy/internal/models"
	"example.com/golfbuddy/internal/store"
)

// Follow adds the edge actor -> target. Following yourself or someone you
// already follow leaves the graph unchanged.
func (s *Service) Follow(ctx context.Context, actorID, targetID int64) (Outcome, error) {
	if _, err := s.userOr(ctx, actorID, MsgActorMissing); err != nil {
		return Outcome{}, err
	}
	if _, err := s.userOr(ctx, targetID, MsgTargetMissing); err != nil {
		return Outcome{}, err
	}
	if actorID == targetID {
		return noop(MsgFollowSelf), nil
	}

	following, err := s.store.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return Outcome{}, err
	}
	if following {
		return noop(MsgAlreadyFollows), nil
	}

	if err := s.store.AddFollow(ctx, actorID, targetID); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return noop(MsgAlreadyFollows), nil
		}
		return Outcome{}, err
	}
	s.publish(ctx, models.EventUserFollowed, actorID, targetID, 0)
	return applied(MsgFollowAdded), nil
}

func (s *Service) Unfollow(ctx context.Context, actorID, targetID int64) (Outcome, error) {
	if _, err := s.userOr(ctx, actorID, MsgActorMissing); err != nil {
		return Outcome{}, err
	}
	if _, err := s.userOr(ctx, targetID, MsgTargetMissing); err != nil {
		return Outcome{}, err
	}
	if actorID == targetID {
		return noop(MsgUnfollowSelf), nil
	}

	following, err := s.store.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return Outcome{}, err
	}
	if !following {
		return noop(MsgNotFollowing), nil
	}

	if err := s.store.RemoveFollow(ctx, actorID, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return noop(MsgNotFollowing), nil
		}
		return Outcome{}, err
	}
	return applied(MsgUnfollowed), nil
}
