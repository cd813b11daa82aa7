package dashboard

import (
	"context"
	"time"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/bwmarrin/snowflake"
)

//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks

// Record is one customer row as the dashboard sees it.
type Record = customerdomain.Customer

// PageQuery selects one window of the caller's records.
type PageQuery struct {
	Offset int
	Limit  int
	Sort   customerdomain.Sort
	Search string
	From   *time.Time
	To     *time.Time
}

type PageResult struct {
	Records []Record
	Count   int64
}

// RecordInput holds the user-editable fields of a record.
type RecordInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// Backend is the record collection the dashboard reads and mutates. Every
// call is scoped to the authenticated owner.
type Backend interface {
	FetchPage(ctx context.Context, q PageQuery) (PageResult, error)
	FetchCreatedAt(ctx context.Context) ([]time.Time, error)
	Insert(ctx context.Context, ownerID snowflake.ID, in RecordInput) (Record, error)
	Update(ctx context.Context, id snowflake.ID, in RecordInput) (Record, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

// UserSource reports the signed-in user, or nil.
type UserSource interface {
	CurrentUser() *authdomain.User
}

// StaticUser is a UserSource fixed to one user, as resolved by a request.
type StaticUser struct {
	User *authdomain.User
}

func (s StaticUser) CurrentUser() *authdomain.User { return s.User }
