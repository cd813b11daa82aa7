package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListCustomerFilter, offset, limit int, sort Sort) ([]*Customer, error)
	Count(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListCustomerFilter) (int64, error)
	ListCreatedAt(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]time.Time, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields UpdateFields) error
	Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error
}

// UpdateFields are the only columns an update may touch.
type UpdateFields struct {
	Name      string
	Email     string
	Phone     string
	Notes     string
	UpdatedAt time.Time
}
