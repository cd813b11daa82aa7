package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/auth/repository"
	"github.com/Henok-Haile/crm-dashboard/internal/clock"
	"github.com/Henok-Haile/crm-dashboard/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (authdomain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}, &authdomain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	return New(zap.NewNop(), repo, sessionRepo, node, clk), clk
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.SignUp(context.Background(), authdomain.SignUpRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user == nil {
		t.Fatal("expected user")
	}

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignUpNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.SignUp(context.Background(), authdomain.SignUpRequest{
		Email:    "  Bob@Example.COM ",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.Email != "bob@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "strong-password" || user.PasswordHash == "" {
		t.Fatal("expected password to be hashed")
	}
}

func TestSignUpRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := authdomain.SignUpRequest{Email: "carol@example.com", Password: "hunter22"}
	if _, err := svc.SignUp(ctx, req); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	req.Email = "CAROL@example.com"
	if _, err := svc.SignUp(ctx, req); err != authdomain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, authdomain.SignUpRequest{Email: "not-an-email", Password: "hunter22"}); err != authdomain.ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.SignUp(ctx, authdomain.SignUpRequest{Email: "dave@example.com", Password: "12345"}); err != authdomain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthenticateLifecycle(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, authdomain.SignUpRequest{Email: "erin@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	result, err := svc.Login(ctx, authdomain.LoginRequest{Email: "erin@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.RawToken == "" || result.User.ID != user.ID {
		t.Fatalf("unexpected login result: %+v", result)
	}
	if !result.ExpiresAt.Equal(clk.Now().Add(7 * 24 * time.Hour)) {
		t.Fatalf("unexpected expiry %v", result.ExpiresAt)
	}

	session, err := svc.Authenticate(ctx, result.RawToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("expected session for %s, got %s", user.ID, session.UserID)
	}

	if _, err := svc.Authenticate(ctx, "bogus"); err != authdomain.ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}

	if err := svc.Logout(ctx, result.RawToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, result.RawToken); err != authdomain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestAuthenticateExpired(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, authdomain.SignUpRequest{Email: "frank@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	result, err := svc.Login(ctx, authdomain.LoginRequest{Email: "frank@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clk.Advance(8 * 24 * time.Hour)
	if _, err := svc.Authenticate(ctx, result.RawToken); err != authdomain.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
