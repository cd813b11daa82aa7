package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
}

type SignUpRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	UserAgent string `json:"-" form:"-"`
	IPAddress string `json:"-" form:"-"`
}

type LoginResult struct {
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
	User      *User
}
