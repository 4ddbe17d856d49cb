package models

import (
	"gorm.io/gorm"
)

// Friendship is a directed user -> friend edge used to scope leaderboards.
type Friendship struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_user_friend"`
	FriendID uint `json:"friend_id" gorm:"uniqueIndex:idx_user_friend"`
	User     User `json:"-" gorm:"foreignKey:UserID"`
	Friend   User `json:"-" gorm:"foreignKey:FriendID"`
}
