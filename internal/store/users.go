package store

import (
	"context"

	"example.com/golfbuddy/internal/models"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, gender, email, birthdate, hcp, password`

// --- User operations ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO users (name, gender, email, birthdate, hcp, password)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		u.Name, u.Gender, u.Email, u.Birthdate, u.HCP, u.Password,
	).Scan(&u.ID)
	if err != nil {
		logg.Error("Failed to create user", err)
		return mapErr(err)
	}
	logg.Info("User created successfully (email anonymized)")
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *Store) queryUser(ctx context.Context, sql string, arg any) (*models.User, error) {
	rows, err := s.Pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, mapErr(err)
	}
	u, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[models.User])
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func (s *Store) queryUsers(ctx context.Context, sql string, args ...any) ([]models.User, error) {
	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		logg.Error("Failed to query users", err)
		return nil, mapErr(err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.User])
	if err != nil {
		logg.Error("Failed to scan users", err)
		return nil, mapErr(err)
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE users
		SET name = $2, gender = $3, email = $4, birthdate = $5, hcp = $6, password = $7
		WHERE id = $1`,
		u.ID, u.Name, u.Gender, u.Email, u.Birthdate, u.HCP, u.Password,
	)
	return expectOne(tag, err)
}

// DeleteUser removes the user together with everything it owns and every
// follow edge touching it.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		stmts := []string{
			`DELETE FROM likes WHERE user_id = $1 OR post_id IN (SELECT id FROM posts WHERE user_id = $1)`,
			`DELETE FROM comments WHERE user_id = $1 OR post_id IN (SELECT id FROM posts WHERE user_id = $1)`,
			`DELETE FROM posts WHERE user_id = $1`,
			`DELETE FROM follows WHERE user_id = $1 OR followed_id = $1`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}
		return expectOne(tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
	})
	if err != nil {
		logg.Error("Failed to delete user", err)
		return mapErr(err)
	}
	logg.Info("User and owned content deleted")
	return nil
}

// --- Follow operations ---

func (s *Store) AddFollow(ctx context.Context, userID, followedID int64) error {
	if _, err := s.Pool.Exec(ctx,
		`INSERT INTO follows (user_id, followed_id) VALUES ($1, $2)`,
		userID, followedID,
	); err != nil {
		logg.Error("Failed to create follow relationship", err)
		return mapErr(err)
	}
	logg.Info("Follow relationship created (user IDs anonymized)")
	return nil
}

func (s *Store) RemoveFollow(ctx context.Context, userID, followedID int64) error {
	return expectOne(s.Pool.Exec(ctx,
		`DELETE FROM follows WHERE user_id = $1 AND followed_id = $2`,
		userID, followedID,
	))
}

func (s *Store) IsFollowing(ctx context.Context, userID, followedID int64) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND followed_id = $2)`,
		userID, followedID,
	).Scan(&exists)
	return exists, mapErr(err)
}

// ListFollowing returns the users userID follows, in the order the edges were
// created.
func (s *Store) ListFollowing(ctx context.Context, userID int64) ([]models.User, error) {
	return s.queryUsers(ctx, `
		SELECT u.id, u.name, u.gender, u.email, u.birthdate, u.hcp, u.password
		FROM follows f JOIN users u ON u.id = f.followed_id
		WHERE f.user_id = $1
		ORDER BY f.created_at, f.followed_id`, userID)
}

func (s *Store) ListFollowers(ctx context.Context, userID int64) ([]models.User, error) {
	return s.queryUsers(ctx, `
		SELECT u.id, u.name, u.gender, u.email, u.birthdate, u.hcp, u.password
		FROM follows f JOIN users u ON u.id = f.user_id
		WHERE f.followed_id = $1
		ORDER BY f.created_at, f.user_id`, userID)
}
