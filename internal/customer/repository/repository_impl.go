package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, owner_id, name, email, phone, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.OwnerID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Notes,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, name, email, phone, notes, created_at, updated_at
		 FROM customers WHERE owner_id = ? AND id = ?`,
		ownerID,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter domain.ListCustomerFilter, offset, limit int, sort domain.Sort) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := scoped(ctx, db, ownerID, filter).
		Order(sort.OrderClause()).
		Offset(offset).
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter domain.ListCustomerFilter) (int64, error) {
	var count int64
	err := scoped(ctx, db, ownerID, filter).Count(&count).Error
	return count, err
}

func (r *repo) ListCreatedAt(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]time.Time, error) {
	var stamps []time.Time
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, err
	}
	return stamps, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields domain.UpdateFields) error {
	tx := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]any{
			"name":       fields.Name,
			"email":      fields.Email,
			"phone":      fields.Phone,
			"notes":      fields.Notes,
			"updated_at": fields.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	tx := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Customer{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scoped(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter domain.ListCustomerFilter) *gorm.DB {
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("owner_id = ?", ownerID)
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		pattern := escapeLike(term) + "%"
		stmt = stmt.Where(
			"(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(phone) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	return stmt
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
