package models

import "time"

// Genders accepted on registration and edit.
var Genders = []string{"Male", "Female", "Not certain"}

type User struct {
	ID        int64
	Name      string
	Gender    string
	Email     string
	Birthdate string
	HCP       float64
	Password  string // bcrypt hash
}

type Post struct {
	ID      int64
	UserID  int64
	Text    string
	Created time.Time
}

type Comment struct {
	ID      int64
	PostID  int64
	UserID  int64
	Text    string
	Created time.Time
}

type Like struct {
	ID     int64
	PostID int64
	UserID int64
}

// Follow is a directed edge: UserID follows FollowedID.
type Follow struct {
	UserID     int64
	FollowedID int64
}

// RevokedToken is a logged-out access token identifier.
type RevokedToken struct {
	JTI       string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type EventType string

const (
	EventUserFollowed  EventType = "user_followed"
	EventPostCreated   EventType = "post_created"
	EventPostLiked     EventType = "post_liked"
	EventPostCommented EventType = "post_commented"
)

// Event is published to the activity topic after a successful mutation.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	ActorID      int64     `json:"actor_id"`
	TargetUserID int64     `json:"target_user_id,omitempty"`
	PostID       int64     `json:"post_id,omitempty"`
	Created      time.Time `json:"created"`
}

// Notification is one entry of a user's notification timeline.
type Notification struct {
	UserID  int64     `json:"user_id"`
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	ActorID int64     `json:"actor_id"`
	PostID  int64     `json:"post_id,omitempty"`
	Created time.Time `json:"created"`
}
