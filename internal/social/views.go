package social

import (
	"context"
	"time"

	"example.com/golfbuddy/internal/feed"
	"example.com/golfbuddy/internal/models"
)

type LikeView struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

type CommentView struct {
	ID      int64     `json:"id"`
	Comment string    `json:"comment"`
	UserID  int64     `json:"user_id"`
	PostID  int64     `json:"post_id"`
	Time    time.Time `json:"time"`
}

type PostView struct {
	ID       int64         `json:"id"`
	Text     string        `json:"text"`
	UserID   int64         `json:"user_id"`
	Likes    []LikeView    `json:"likes"`
	Comments []CommentView `json:"comment"`
	Time     time.Time     `json:"time"`
}

// UserView is the public shape of a user. It never carries the password hash.
type UserView struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Gender    string     `json:"gender"`
	Email     string     `json:"email"`
	Birthdate string     `json:"birthdate"`
	HCP       float64    `json:"hcp"`
	Posts     []PostView `json:"posts"`
	Following []string   `json:"following"`
	Followers []string   `json:"followers"`
	Feed      []PostView `json:"feed"`
}

func postTime(p models.Post) time.Time { return p.Created }

func commentTime(c models.Comment) time.Time { return c.Created }

func sortedPosts(posts []models.Post) []models.Post {
	return feed.Merge(postTime, posts)
}

func commentView(c *models.Comment) CommentView {
	return CommentView{ID: c.ID, Comment: c.Text, UserID: c.UserID, PostID: c.PostID, Time: c.Created}
}

func (s *Service) postView(ctx context.Context, p *models.Post) (PostView, error) {
	likes, err := s.store.ListLikes(ctx, p.ID)
	if err != nil {
		return PostView{}, err
	}
	comments, err := s.store.ListComments(ctx, p.ID)
	if err != nil {
		return PostView{}, err
	}

	v := PostView{
		ID:       p.ID,
		Text:     p.Text,
		UserID:   p.UserID,
		Likes:    make([]LikeView, 0, len(likes)),
		Comments: make([]CommentView, 0, len(comments)),
		Time:     p.Created,
	}
	for _, l := range likes {
		v.Likes = append(v.Likes, LikeView{ID: l.ID, PostID: l.PostID, UserID: l.UserID})
	}
	for _, c := range feed.Merge(commentTime, comments) {
		v.Comments = append(v.Comments, commentView(&c))
	}
	return v, nil
}

func (s *Service) postViews(ctx context.Context, posts []models.Post) ([]PostView, error) {
	out := make([]PostView, 0, len(posts))
	for i := range posts {
		v, err := s.postView(ctx, &posts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func names(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

func (s *Service) userView(ctx context.Context, u *models.User) (UserView, error) {
	posts, err := s.store.ListPostsByUser(ctx, u.ID)
	if err != nil {
		return UserView{}, err
	}
	postViews, err := s.postViews(ctx, posts)
	if err != nil {
		return UserView{}, err
	}
	following, err := s.store.ListFollowing(ctx, u.ID)
	if err != nil {
		return UserView{}, err
	}
	followers, err := s.store.ListFollowers(ctx, u.ID)
	if err != nil {
		return UserView{}, err
	}
	fd, err := s.feedOf(ctx, following, posts)
	if err != nil {
		return UserView{}, err
	}

	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Gender:    u.Gender,
		Email:     u.Email,
		Birthdate: u.Birthdate,
		HCP:       u.HCP,
		Posts:     postViews,
		Following: names(following),
		Followers: names(followers),
		Feed:      fd,
	}, nil
}

// Feed returns the posts of everyone the user follows plus the user's own,
// oldest first.
func (s *Service) Feed(ctx context.Context, userID int64) ([]PostView, error) {
	if _, err := s.userOr(ctx, userID, MsgNoSuchUser); err != nil {
		return nil, err
	}
	following, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	own, err := s.store.ListPostsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.feedOf(ctx, following, own)
}

// feedOf merges the followed users' posts, in follow order, with own.
func (s *Service) feedOf(ctx context.Context, following []models.User, own []models.Post) ([]PostView, error) {
	lists := make([][]models.Post, 0, len(following)+1)
	for _, f := range following {
		posts, err := s.store.ListPostsByUser(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		lists = append(lists, posts)
	}
	lists = append(lists, own)
	return s.postViews(ctx, feed.Merge(postTime, lists...))
}
