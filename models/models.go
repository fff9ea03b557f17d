package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

type User struct {
	gorm.Model
	FirstName string    `gorm:"size:30;not null"`
	LastName  string    `gorm:"size:30;not null"`
	Email     string    `gorm:"unique;not null"`
	Password  string    `gorm:"not null"`
	Posts     []Post    `gorm:"foreignkey:UserID"`
	Comments  []Comment `gorm:"foreignkey:UserID"`
	Likes     []Like    `gorm:"foreignkey:UserID"`
}

type Post struct {
	gorm.Model
	Content  string    `gorm:"not null"`
	UserID   uint      `gorm:"index"`
	Comments []Comment `gorm:"foreignkey:PostID"`
	Likes    []Like    `gorm:"foreignkey:PostID"`
}

type Comment struct {
	gorm.Model
	Content string `gorm:"not null"`
	PostID  uint   `gorm:"index"`
	UserID  uint   `gorm:"index"`
}

// Like не использует gorm.Model: soft delete сломал бы уникальность пары
type Like struct {
	ID     uint `gorm:"primary_key"`
	UserID uint `gorm:"unique_index:idx_like_user_post"`
	PostID uint `gorm:"unique_index:idx_like_user_post"`
}

// Friendship хранит направленное ребро. PairKey ("min:max") уникален,
// поэтому между двумя пользователями не может быть двух рёбер ни в одном направлении
type Friendship struct {
	ID          uint   `gorm:"primary_key"`
	RequesterID uint   `gorm:"index;not null"`
	AddresseeID uint   `gorm:"index;not null"`
	PairKey     string `gorm:"unique_index;not null"`
	Confirmed   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func AllModels() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &Like{}, &Friendship{}}
}
