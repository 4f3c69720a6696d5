package social

import (
	"context"
	"errors"
	"unicode/utf8"

	"example.com/golfbuddy/internal/models"
	"example.com/golfbuddy/internal/store"
)

// --- Posts ---

// CreatePost stores a new post. A nil text means the field was not sent.
func (s *Service) CreatePost(ctx context.Context, authorID int64, text *string) (Outcome, error) {
	if _, err := s.userOr(ctx, authorID, MsgThereNoUser); err != nil {
		return Outcome{}, err
	}
	if text == nil {
		return Outcome{}, invalid(MsgNoText)
	}
	if n := utf8.RuneCountInString(*text); n < 1 || n > MaxPostLength {
		return Outcome{}, invalid(MsgTextLength)
	}

	p := &models.Post{UserID: authorID, Text: *text, Created: s.now().UTC()}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return Outcome{}, err
	}
	s.publish(ctx, models.EventPostCreated, authorID, 0, p.ID)
	return applied(MsgPostCreated), nil
}

// ListPosts returns an author's posts, oldest first.
func (s *Service) ListPosts(ctx context.Context, authorID int64) ([]PostView, error) {
	if _, err := s.userOr(ctx, authorID, MsgThereNoUser); err != nil {
		return nil, err
	}
	posts, err := s.store.ListPostsByUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.postViews(ctx, sortedPosts(posts))
}

// postFor resolves the post first and the user second.
func (s *Service) postFor(ctx context.Context, postID, userID int64) (*models.Post, error) {
	p, err := s.postOr(ctx, postID, MsgThereNoPost)
	if err != nil {
		return nil, err
	}
	if _, err := s.userOr(ctx, userID, MsgThereNoUser); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPost(ctx context.Context, postID, userID int64) (PostView, error) {
	p, err := s.postFor(ctx, postID, userID)
	if err != nil {
		return PostView{}, err
	}
	return s.postView(ctx, p)
}

// EditPost replaces the text of the actor's own post. The new text is not
// length checked.
func (s *Service) EditPost(ctx context.Context, postID, actorID int64, text *string) (Outcome, error) {
	p, err := s.postFor(ctx, postID, actorID)
	if err != nil {
		return Outcome{}, err
	}
	if p.UserID != actorID {
		return Outcome{}, ErrNotAuthor
	}
	if text == nil {
		return Outcome{}, invalid(MsgEditTextOnly)
	}
	if err := s.store.UpdatePostText(ctx, postID, *text); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, notFound(MsgThereNoPost)
		}
		return Outcome{}, err
	}
	return applied(MsgTextEdited), nil
}

// DeletePost removes the actor's own post with its likes and comments.
func (s *Service) DeletePost(ctx context.Context, postID, actorID int64) (Outcome, error) {
	p, err := s.postFor(ctx, postID, actorID)
	if err != nil {
		return Outcome{}, err
	}
	if p.UserID != actorID {
		return Outcome{}, ErrNotAuthor
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, notFound(MsgThereNoPost)
		}
		return Outcome{}, err
	}
	return applied(MsgPostDeleted), nil
}

// --- Comments ---

// commentTarget resolves the user first and the post second.
func (s *Service) commentTarget(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if _, err := s.userOr(ctx, userID, MsgThereNoUser); err != nil {
		return nil, err
	}
	return s.postOr(ctx, postID, MsgThereNoPost)
}

// AddComment stores a comment. Text longer than MaxCommentLength is refused
// without an error status.
func (s *Service) AddComment(ctx context.Context, postID, userID int64, text *string) (Outcome, error) {
	p, err := s.commentTarget(ctx, postID, userID)
	if err != nil {
		return Outcome{}, err
	}
	if text == nil {
		return Outcome{}, invalid(MsgNoComment)
	}
	if utf8.RuneCountInString(*text) > MaxCommentLength {
		return noop(MsgCommentLength), nil
	}

	c := &models.Comment{PostID: postID, UserID: userID, Text: *text, Created: s.now().UTC()}
	if err := s.store.CreateComment(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, notFound(MsgThereNoPost)
		}
		return Outcome{}, err
	}
	s.publish(ctx, models.EventPostCommented, userID, p.UserID, postID)
	return applied(MsgCommentAdded), nil
}

// findComment looks a comment up by post, requesting user and id together.
func (s *Service) findComment(ctx context.Context, postID, userID, commentID int64) (*models.Comment, error) {
	if _, err := s.commentTarget(ctx, postID, userID); err != nil {
		return nil, err
	}
	c, err := s.store.FindComment(ctx, postID, userID, commentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(MsgNoSuchComment)
	}
	return c, err
}

func (s *Service) GetComment(ctx context.Context, postID, userID, commentID int64) (CommentView, error) {
	c, err := s.findComment(ctx, postID, userID, commentID)
	if err != nil {
		return CommentView{}, err
	}
	return commentView(c), nil
}

func (s *Service) DeleteComment(ctx context.Context, postID, userID, commentID int64) (Outcome, error) {
	c, err := s.findComment(ctx, postID, userID, commentID)
	if err != nil {
		return Outcome{}, err
	}
	if err := s.store.DeleteComment(ctx, c.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, notFound(MsgNoSuchComment)
		}
		return Outcome{}, err
	}
	return applied(MsgCommentGone), nil
}

// --- Likes ---

// Like records that userID likes postID. A second like is a no-op.
func (s *Service) Like(ctx context.Context, userID, postID int64) (Outcome, error) {
	if _, err := s.userOr(ctx, userID, MsgLikerMissing); err != nil {
		return Outcome{}, err
	}
	p, err := s.postOr(ctx, postID, MsgLikePostGone)
	if err != nil {
		return Outcome{}, err
	}

	_, err = s.store.FindLike(ctx, userID, postID)
	switch {
	case err == nil:
		return noop(MsgAlreadyLiked), nil
	case !errors.Is(err, store.ErrNotFound):
		return Outcome{}, err
	}

	if err := s.store.CreateLike(ctx, &models.Like{PostID: postID, UserID: userID}); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return noop(MsgAlreadyLiked), nil
		}
		return Outcome{}, err
	}
	s.publish(ctx, models.EventPostLiked, userID, p.UserID, postID)
	return applied(MsgLikeAdded), nil
}

// Unlike removes a like by its own id once user and post are known to exist.
func (s *Service) Unlike(ctx context.Context, userID, postID, likeID int64) (Outcome, error) {
	if _, err := s.userOr(ctx, userID, MsgUnlikerMissing); err != nil {
		return Outcome{}, err
	}
	if _, err := s.postOr(ctx, postID, MsgUnlikePostGone); err != nil {
		return Outcome{}, err
	}

	if _, err := s.store.GetLike(ctx, likeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return noop(MsgNoSuchLike), nil
		}
		return Outcome{}, err
	}
	if err := s.store.DeleteLike(ctx, likeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return noop(MsgNoSuchLike), nil
		}
		return Outcome{}, err
	}
	return applied(MsgLikeRemoved), nil
}
