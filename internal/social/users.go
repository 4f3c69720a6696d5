package social

import (
	"context"
	"errors"

	"example.com/golfbuddy/internal/models"
	"example.com/golfbuddy/internal/store"
	"example.com/golfbuddy/internal/validate"
)

// Register creates a user from a submitted object. Every required field must
// be present before any of them is validated; the first rejection in
// submission order is reported.
func (s *Service) Register(ctx context.Context, f validate.Fields) (Outcome, error) {
	if !f.Has(validate.Required...) {
		return Outcome{}, invalid(validate.MsgMissing)
	}
	for _, p := range f {
		if err := s.check(ctx, p); err != nil {
			return Outcome{}, err
		}
	}

	u := &models.User{}
	if err := s.apply(u, f); err != nil {
		return Outcome{}, err
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Outcome{}, invalid(validate.MsgEmailTaken)
		}
		return Outcome{}, err
	}
	return applied(MsgUserCreated), nil
}

// check validates one submitted member, keeping store failures apart from
// rejections.
func (s *Service) check(ctx context.Context, p validate.Pair) error {
	err := s.val.Field(ctx, p.Name, p.Raw)
	if err == nil {
		return nil
	}
	if msg, ok := validate.Message(err); ok {
		return invalid(msg)
	}
	return err
}

// apply copies already validated fields onto u.
func (s *Service) apply(u *models.User, f validate.Fields) error {
	for _, p := range f {
		switch p.Name {
		case validate.Name:
			u.Name, _ = validate.String(p.Raw)
		case validate.Gender:
			u.Gender, _ = validate.String(p.Raw)
		case validate.Email:
			u.Email, _ = validate.String(p.Raw)
		case validate.Birthdate:
			u.Birthdate, _ = validate.String(p.Raw)
		case validate.HCP:
			h, err := validate.ParseHCP(p.Raw)
			if err != nil {
				return invalid(validate.MsgHCPFormat)
			}
			u.HCP = h
		case validate.Password:
			pw, _ := validate.String(p.Raw)
			hash, err := s.hasher.Hash(pw)
			if err != nil {
				return err
			}
			u.Password = hash
		}
	}
	return nil
}

// ListUsers returns every member, or a validation error when there are none.
func (s *Service) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, invalid(MsgNoUsers)
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		v, err := s.userView(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (UserView, error) {
	u, err := s.userOr(ctx, id, MsgNoSuchUser)
	if err != nil {
		return UserView{}, err
	}
	return s.userView(ctx, u)
}

// EditUser applies a partial update. All supplied fields are checked first,
// so a rejected field leaves the user untouched. Resubmitting the current
// email is not a uniqueness conflict.
func (s *Service) EditUser(ctx context.Context, id int64, f validate.Fields) (Outcome, error) {
	u, err := s.userOr(ctx, id, MsgNoSuchUser)
	if err != nil {
		return Outcome{}, err
	}
	for _, p := range f {
		if p.Name == validate.Email {
			if email, ok := validate.String(p.Raw); ok && email == u.Email {
				continue
			}
		}
		if err := s.check(ctx, p); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return Outcome{}, invalid(validate.MsgWrongInput)
			}
			return Outcome{}, err
		}
	}

	updated := *u
	if err := s.apply(&updated, f); err != nil {
		return Outcome{}, err
	}
	if err := s.store.UpdateUser(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return Outcome{}, invalid(validate.MsgWrongInput)
		case errors.Is(err, store.ErrNotFound):
			return Outcome{}, notFound(MsgNoSuchUser)
		}
		return Outcome{}, err
	}
	return applied(MsgUserEdited), nil
}

// DeleteUser removes the user together with everything it owns.
func (s *Service) DeleteUser(ctx context.Context, id int64) (Outcome, error) {
	if _, err := s.userOr(ctx, id, MsgNoSuchUser); err != nil {
		return Outcome{}, err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, notFound(MsgNoSuchUser)
		}
		return Outcome{}, err
	}
	return applied(MsgUserDeleted), nil
}

// Authenticate checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalid(MsgWrongLogin)
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(u.Password, password) {
		return nil, invalid(MsgWrongLogin)
	}
	return u, nil
}
