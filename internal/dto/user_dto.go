package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        *string    `json:"name"`
	IsActive    bool       `json:"is_active"`
	MemberPlan  *string    `json:"member_plan"`
	MemberUntil *time.Time `json:"member_until"`
}

type MembershipResponse struct {
	Id        uuid.UUID  `json:"id"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

type SessionInfoResponse struct {
	User        UserResponse         `json:"user"`
	Memberships []MembershipResponse `json:"memberships"`
}

type CsrfTokenResponse struct {
	CsrfToken string `json:"csrf_token"`
}
