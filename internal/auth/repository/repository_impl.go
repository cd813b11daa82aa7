package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/Henok-Haile/crm-dashboard/pkg/db"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// repo stores accounts and their login sessions in one database.
type repo struct {
	db *gorm.DB
}

func New(conn *gorm.DB) (domain.Repository, domain.SessionRepository) {
	r := &repo{db: conn}
	return r, r
}

// first loads the single row matching query, translating a miss to notFound.
func first[T any](ctx context.Context, conn *gorm.DB, notFound error, query string, args ...any) (*T, error) {
	var row T
	err := conn.WithContext(ctx).Where(query, args...).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound
	case err != nil:
		return nil, err
	}
	return &row, nil
}

func (r *repo) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrUserExists
	}
	return err
}

// FindByEmail expects an already normalized (lower-cased) address.
func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return first[domain.User](ctx, r.db, domain.ErrUserNotFound, "email = ?", email)
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return first[domain.User](ctx, r.db, domain.ErrUserNotFound, "id = ?", id)
}

func (r *repo) CreateSession(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return first[domain.Session](ctx, r.db, domain.ErrSessionNotFound, "session_token_hash = ?", tokenHash)
}

func (r *repo) UpdateLastSeen(ctx context.Context, sessionID snowflake.ID, lastSeen time.Time) error {
	return r.setSessionColumn(ctx, sessionID, "last_seen_at", lastSeen)
}

func (r *repo) RevokeSession(ctx context.Context, sessionID snowflake.ID, revokedAt time.Time) error {
	return r.setSessionColumn(ctx, sessionID, "revoked_at", revokedAt)
}

func (r *repo) setSessionColumn(ctx context.Context, sessionID snowflake.ID, column string, at time.Time) error {
	tx := r.db.WithContext(ctx).Model(&domain.Session{}).Where("id = ?", sessionID).Update(column, at)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
