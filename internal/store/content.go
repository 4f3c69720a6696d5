package store

import (
	"context"

	"example.com/golfbuddy/internal/models"
	"github.com/jackc/pgx/v5"
)

// --- Post operations ---

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, text, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		p.UserID, p.Text, p.Created,
	).Scan(&p.ID)
	if err != nil {
		logg.Error("Failed to add post", err)
		return mapErr(err)
	}
	logg.Info("Post added to posts table (post content anonymized)")
	return nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, user_id, text, created_at FROM posts WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[models.Post])
	return p, mapErr(err)
}

func (s *Store) ListPostsByUser(ctx context.Context, userID int64) ([]models.Post, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, user_id, text, created_at FROM posts WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		logg.Error("Failed to query posts", err)
		return nil, mapErr(err)
	}
	posts, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Post])
	return posts, mapErr(err)
}

func (s *Store) UpdatePostText(ctx context.Context, id int64, text string) error {
	return expectOne(s.Pool.Exec(ctx, `UPDATE posts SET text = $2 WHERE id = $1`, id, text))
}

// DeletePost removes the post's likes and comments before the post itself.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return err
		}
		return expectOne(tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id))
	})
	if err != nil {
		logg.Error("Failed to delete post", err)
		return mapErr(err)
	}
	return nil
}

// --- Comment operations ---

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO comments (post_id, user_id, comment, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.PostID, c.UserID, c.Text, c.Created,
	).Scan(&c.ID)
	if err != nil {
		logg.Error("Failed to add comment", err)
		return mapErr(err)
	}
	return nil
}

// FindComment matches on all three keys at once.
func (s *Store) FindComment(ctx context.Context, postID, userID, commentID int64) (*models.Comment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, post_id, user_id, comment, created_at
		FROM comments WHERE post_id = $1 AND user_id = $2 AND id = $3`,
		postID, userID, commentID)
	if err != nil {
		return nil, mapErr(err)
	}
	c, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[models.Comment])
	return c, mapErr(err)
}

func (s *Store) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, post_id, user_id, comment, created_at
		FROM comments WHERE post_id = $1 ORDER BY id`, postID)
	if err != nil {
		return nil, mapErr(err)
	}
	comments, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Comment])
	return comments, mapErr(err)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	return expectOne(s.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id))
}

// --- Like operations ---

func (s *Store) CreateLike(ctx context.Context, l *models.Like) error {
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO likes (post_id, user_id) VALUES ($1, $2) RETURNING id`,
		l.PostID, l.UserID,
	).Scan(&l.ID)
	return mapErr(err)
}

func (s *Store) FindLike(ctx context.Context, userID, postID int64) (*models.Like, error) {
	return s.queryLike(ctx,
		`SELECT id, post_id, user_id FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
}

func (s *Store) GetLike(ctx context.Context, id int64) (*models.Like, error) {
	return s.queryLike(ctx, `SELECT id, post_id, user_id FROM likes WHERE id = $1`, id)
}

func (s *Store) queryLike(ctx context.Context, sql string, args ...any) (*models.Like, error) {
	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	l, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[models.Like])
	return l, mapErr(err)
}

func (s *Store) ListLikes(ctx context.Context, postID int64) ([]models.Like, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, post_id, user_id FROM likes WHERE post_id = $1 ORDER BY id`, postID)
	if err != nil {
		return nil, mapErr(err)
	}
	likes, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Like])
	return likes, mapErr(err)
}

func (s *Store) DeleteLike(ctx context.Context, id int64) error {
	return expectOne(s.Pool.Exec(ctx, `DELETE FROM likes WHERE id = $1`, id))
}
