package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Name         *string   `gorm:"size:100" json:"name,omitempty"`
	PasswordHash *string   `gorm:"column:password;size:255" json:"-"`
	Image        *string   `gorm:"size:500" json:"image,omitempty"`
	Role         string    `gorm:"size:20;default:user;not null" json:"role"` // user, admin
	GithubID     *string   `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联
	Subscription *Subscription `gorm:"foreignKey:UserID" json:"subscription,omitempty"`
	Videos       []Video       `gorm:"foreignKey:UserID" json:"videos,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
