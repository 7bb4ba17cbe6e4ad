package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"       json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	CreatedAt    time.Time `gorm:"not null"                   json:"created_at"`
}

// Favorite is a museum snapshot saved by a user. Name, city and department
// are copied at save time and are not refreshed from upstream.
type Favorite struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	MuseumID   string    `gorm:"not null;uniqueIndex:idx_user_museum,priority:2" json:"museum_id"`
	Name       string    `gorm:"not null"                                  json:"name"`
	City       string    `json:"city"`
	Department string    `json:"department"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_user_museum,priority:1" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE"               json:"-"`
	CreatedAt  time.Time `gorm:"not null"                                  json:"created_at"`
}

// Session backs an opaque bearer token. Only the SHA-256 of the token is stored.
type Session struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TokenHash string    `gorm:"uniqueIndex;not null"     json:"-"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"not null"                 json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null"           json:"expires_at"`
}

func All() []any {
	return []any{&User{}, &Favorite{}, &Session{}}
}
