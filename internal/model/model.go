package model

import "time"

type User struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Name - полное имя пользователя
func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}

type UpdateUserInput struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Password        *string
	CurrentPassword string
}

type Post struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentConnection struct {
	Items      []*Comment `json:"items"`
	HasMore    bool       `json:"has_more"`
	NextOffset int        `json:"next_offset"`
}

// Friendship - направленное ребро requester -> addressee
type Friendship struct {
	ID          uint      `json:"id"`
	RequesterID uint      `json:"requester_id"`
	AddresseeID uint      `json:"addressee_id"`
	Confirmed   bool      `json:"confirmed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Other возвращает второй конец ребра относительно userID
func (f *Friendship) Other(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

func (f *Friendship) Touches(userID uint) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// DeleteResult - сколько сущностей удалено каскадом вместе с пользователем
type DeleteResult struct {
	Users       int `json:"users"`
	Posts       int `json:"posts"`
	Comments    int `json:"comments"`
	Likes       int `json:"likes"`
	Friendships int `json:"friendships"`
}

type NotificationKind string

const (
	NotificationFriendRequest   NotificationKind = "friend_request"
	NotificationFriendConfirmed NotificationKind = "friend_confirmed"
	NotificationPostLiked       NotificationKind = "post_liked"
)

type Notification struct {
	Kind      NotificationKind `json:"kind"`
	ActorID   uint             `json:"actor_id"`
	PostID    uint             `json:"post_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
