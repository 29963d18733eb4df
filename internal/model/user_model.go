package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Name         *string   `gorm:"type:varchar(255)"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type Membership struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index:idx_memberships_user"`
	Plan      string     `gorm:"type:varchar(50);not null"`
	Status    string     `gorm:"type:varchar(20);not null"`
	StartedAt time.Time  `gorm:"not null"`
	EndsAt    *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "memberships"
}
