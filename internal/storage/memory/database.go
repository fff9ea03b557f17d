package memory

import (
	"sort"
	"sync"

	"github.com/VitaminP8/moim/internal/model"
)

type userRecord struct {
	user     *model.User
	password string // bcrypt-хэш
}

// Database - общее in-memory хранилище всех сущностей.
// Один мьютекс на всё: каскадное удаление должно быть атомарным
type Database struct {
	mu sync.RWMutex

	users    map[uint]*userRecord
	emails   map[string]uint
	posts    map[uint]*model.Post
	comments map[uint]*model.Comment
	// postID -> множество userID
	likes       map[uint]map[uint]struct{}
	friendships map[uint]*model.Friendship
	// userID -> otherID -> friendshipID (в обе стороны)
	adjacency map[uint]map[uint]uint

	nextUserID       uint
	nextPostID       uint
	nextCommentID    uint
	nextFriendshipID uint
}

func NewDatabase() *Database {
	return &Database{
		users:            make(map[uint]*userRecord),
		emails:           make(map[string]uint),
		posts:            make(map[uint]*model.Post),
		comments:         make(map[uint]*model.Comment),
		likes:            make(map[uint]map[uint]struct{}),
		friendships:      make(map[uint]*model.Friendship),
		adjacency:        make(map[uint]map[uint]uint),
		nextUserID:       1,
		nextPostID:       1,
		nextCommentID:    1,
		nextFriendshipID: 1,
	}
}

// все методы *Locked ниже ожидают, что db.mu уже захвачен на запись

func (db *Database) deletePostLocked(postID uint) (comments, likes int) {
	for id, c := range db.comments {
		if c.PostID == postID {
			delete(db.comments, id)
			comments++
		}
	}
	likes = len(db.likes[postID])
	delete(db.likes, postID)
	delete(db.posts, postID)
	return comments, likes
}

func (db *Database) destroyFriendshipsLocked(userID uint) int {
	removed := 0
	for otherID, friendshipID := range db.adjacency[userID] {
		delete(db.friendships, friendshipID)
		delete(db.adjacency[otherID], userID)
		if len(db.adjacency[otherID]) == 0 {
			delete(db.adjacency, otherID)
		}
		removed++
	}
	delete(db.adjacency, userID)
	return removed
}

func (db *Database) linkLocked(f *model.Friendship) {
	for _, pair := range [][2]uint{{f.RequesterID, f.AddresseeID}, {f.AddresseeID, f.RequesterID}} {
		if db.adjacency[pair[0]] == nil {
			db.adjacency[pair[0]] = make(map[uint]uint)
		}
		db.adjacency[pair[0]][pair[1]] = f.ID
	}
}

func sortPostsNewestFirst(posts []*model.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func copyUser(u *model.User) *model.User {
	cp := *u
	return &cp
}

func copyPost(p *model.Post) *model.Post {
	cp := *p
	return &cp
}

func copyFriendship(f *model.Friendship) *model.Friendship {
	cp := *f
	return &cp
}
