package entity

import (
	"time"

	"github.com/google/uuid"
)

type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusCanceled MembershipStatus = "canceled"
	MembershipStatusExpired  MembershipStatus = "expired"
	MembershipStatusPastDue  MembershipStatus = "past_due"
)

type User struct {
	Id           uuid.UUID
	Email        string
	Name         *string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Membership struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Plan      string
	Status    MembershipStatus
	StartedAt time.Time
	EndsAt    *time.Time
}
