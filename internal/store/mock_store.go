package store

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"example.com/golfbuddy/internal/models"
)

var errMockFail = errors.New("mock: store failure")

// MockStore simulates the PostgreSQL store in memory for testing.
type MockStore struct {
	mu sync.Mutex

	Users    map[int64]models.User
	Follows  []models.Follow // creation order
	Posts    map[int64]models.Post
	Comments map[int64]models.Comment
	Likes    map[int64]models.Like
	Revoked  map[string]time.Time

	nextID     int64
	ShouldFail bool // flag to simulate failures
}

// NewMock initializes a new mock store
func NewMock() *MockStore {
	return &MockStore{
		Users:    make(map[int64]models.User),
		Posts:    make(map[int64]models.Post),
		Comments: make(map[int64]models.Comment),
		Likes:    make(map[int64]models.Like),
		Revoked:  make(map[string]time.Time),
	}
}

func (m *MockStore) Close() {}

func (m *MockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MockStore) fail() error {
	if m.ShouldFail {
		return errMockFail
	}
	return nil
}

// --- users ---

func (m *MockStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	for _, existing := range m.Users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = m.id()
	m.Users[u.ID] = *u
	return nil
}

func (m *MockStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MockStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	for _, u := range m.Users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(m.Users))
	for _, u := range m.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) UpdateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.Users[u.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range m.Users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	m.Users[u.ID] = *u
	return nil
}

func (m *MockStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.Users[id]; !ok {
		return ErrNotFound
	}
	for pid, p := range m.Posts {
		if p.UserID == id {
			m.deletePostLocked(pid)
		}
	}
	for cid, c := range m.Comments {
		if c.UserID == id {
			delete(m.Comments, cid)
		}
	}
	for lid, l := range m.Likes {
		if l.UserID == id {
			delete(m.Likes, lid)
		}
	}
	m.Follows = slices.DeleteFunc(m.Follows, func(f models.Follow) bool {
		return f.UserID == id || f.FollowedID == id
	})
	delete(m.Users, id)
	return nil
}

// --- follows ---

func (m *MockStore) AddFollow(_ context.Context, userID, followedID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if slices.Contains(m.Follows, models.Follow{UserID: userID, FollowedID: followedID}) {
		return ErrDuplicate
	}
	m.Follows = append(m.Follows, models.Follow{UserID: userID, FollowedID: followedID})
	return nil
}

func (m *MockStore) RemoveFollow(_ context.Context, userID, followedID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	edge := models.Follow{UserID: userID, FollowedID: followedID}
	i := slices.Index(m.Follows, edge)
	if i < 0 {
		return ErrNotFound
	}
	m.Follows = slices.Delete(m.Follows, i, i+1)
	return nil
}

func (m *MockStore) IsFollowing(_ context.Context, userID, followedID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return false, err
	}
	return slices.Contains(m.Follows, models.Follow{UserID: userID, FollowedID: followedID}), nil
}

func (m *MockStore) ListFollowing(_ context.Context, userID int64) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, f := range m.Follows {
		if f.UserID == userID {
			out = append(out, m.Users[f.FollowedID])
		}
	}
	return out, nil
}

func (m *MockStore) ListFollowers(_ context.Context, userID int64) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, f := range m.Follows {
		if f.FollowedID == userID {
			out = append(out, m.Users[f.UserID])
		}
	}
	return out, nil
}

// --- posts ---

func (m *MockStore) CreatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	p.ID = m.id()
	m.Posts[p.ID] = *p
	return nil
}

func (m *MockStore) GetPost(_ context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	p, ok := m.Posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MockStore) ListPostsByUser(_ context.Context, userID int64) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := []models.Post{}
	for _, p := range m.Posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) UpdatePostText(_ context.Context, id int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	p, ok := m.Posts[id]
	if !ok {
		return ErrNotFound
	}
	p.Text = text
	m.Posts[id] = p
	return nil
}

func (m *MockStore) DeletePost(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.Posts[id]; !ok {
		return ErrNotFound
	}
	m.deletePostLocked(id)
	return nil
}

func (m *MockStore) deletePostLocked(id int64) {
	for lid, l := range m.Likes {
		if l.PostID == id {
			delete(m.Likes, lid)
		}
	}
	for cid, c := range m.Comments {
		if c.PostID == id {
			delete(m.Comments, cid)
		}
	}
	delete(m.Posts, id)
}

// --- comments ---

func (m *MockStore) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	c.ID = m.id()
	m.Comments[c.ID] = *c
	return nil
}

func (m *MockStore) FindComment(_ context.Context, postID, userID, commentID int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	c, ok := m.Comments[commentID]
	if !ok || c.PostID != postID || c.UserID != userID {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MockStore) ListComments(_ context.Context, postID int64) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := []models.Comment{}
	for _, c := range m.Comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) DeleteComment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.Comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.Comments, id)
	return nil
}

// --- likes ---

func (m *MockStore) CreateLike(_ context.Context, l *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	for _, existing := range m.Likes {
		if existing.UserID == l.UserID && existing.PostID == l.PostID {
			return ErrDuplicate
		}
	}
	l.ID = m.id()
	m.Likes[l.ID] = *l
	return nil
}

func (m *MockStore) FindLike(_ context.Context, userID, postID int64) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	for _, l := range m.Likes {
		if l.UserID == userID && l.PostID == postID {
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetLike(_ context.Context, id int64) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	l, ok := m.Likes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *MockStore) ListLikes(_ context.Context, postID int64) ([]models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := []models.Like{}
	for _, l := range m.Likes {
		if l.PostID == postID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) DeleteLike(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.Likes[id]; !ok {
		return ErrNotFound
	}
	delete(m.Likes, id)
	return nil
}

// --- revocation list ---

func (m *MockStore) Revoke(_ context.Context, jti string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.Revoked[jti]; !ok {
		m.Revoked[jti] = time.Now()
	}
	return nil
}

func (m *MockStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return false, err
	}
	_, ok := m.Revoked[jti]
	return ok, nil
}

// ---------------------------------------------
// MockNotifications keeps notification timelines in memory.
type MockNotifications struct {
	mu         sync.Mutex
	Items      map[int64][]models.Notification
	ShouldFail bool
}

func NewMockNotifications() *MockNotifications {
	return &MockNotifications{Items: make(map[int64][]models.Notification)}
}

func (m *MockNotifications) AddNotification(_ context.Context, n models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errors.New("mock: add notification failed")
	}
	m.Items[n.UserID] = append(m.Items[n.UserID], n)
	return nil
}

// ListNotifications returns newest first, like the clustering order in Cassandra.
func (m *MockNotifications) ListNotifications(_ context.Context, userID int64, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: list notifications failed")
	}
	items := m.Items[userID]
	out := make([]models.Notification, 0, len(items))
	for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, items[i])
	}
	return out, nil
}

func (m *MockNotifications) Close() {}
