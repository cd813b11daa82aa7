package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID   snowflake.ID `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Name      string       `gorm:"type:varchar(200);not null" json:"name"`
	Email     string       `gorm:"type:varchar(320);not null" json:"email"`
	Phone     string       `gorm:"type:varchar(50);not null;default:''" json:"phone"`
	Notes     string       `gorm:"type:text;not null;default:''" json:"notes"`
	CreatedAt time.Time    `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// Sort is a listing order directive.
type Sort string

const (
	SortNameAsc  Sort = "name-asc"
	SortNameDesc Sort = "name-desc"
	SortLatest   Sort = "latest"
)

// ParseSort maps a query value to a Sort; empty means name-asc.
func ParseSort(raw string) (Sort, bool) {
	switch Sort(raw) {
	case "":
		return SortNameAsc, true
	case SortNameAsc, SortNameDesc, SortLatest:
		return Sort(raw), true
	default:
		return "", false
	}
}

// OrderClause is the ORDER BY for the sort, with id as a stable tiebreaker.
func (s Sort) OrderClause() string {
	switch s {
	case SortNameDesc:
		return "name DESC, id DESC"
	case SortLatest:
		return "created_at DESC, id DESC"
	default:
		return "name ASC, id ASC"
	}
}
