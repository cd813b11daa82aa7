package dashboard

import (
	"context"
	"time"

	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/ownercontext"
	"github.com/bwmarrin/snowflake"
)

// ServiceBackend serves the dashboard in-process from the customer service.
// The owner is read from the request context.
type ServiceBackend struct {
	svc customerdomain.Service
}

func NewServiceBackend(svc customerdomain.Service) *ServiceBackend {
	return &ServiceBackend{svc: svc}
}

func (b *ServiceBackend) FetchPage(ctx context.Context, q PageQuery) (PageResult, error) {
	resp, err := b.svc.List(ctx, customerdomain.ListCustomerRequest{
		Offset:      q.Offset,
		Limit:       q.Limit,
		Sort:        q.Sort,
		Search:      q.Search,
		CreatedFrom: q.From,
		CreatedTo:   q.To,
	})
	if err != nil {
		return PageResult{}, err
	}
	return PageResult{Records: resp.Customers, Count: resp.Count}, nil
}

func (b *ServiceBackend) FetchCreatedAt(ctx context.Context) ([]time.Time, error) {
	return b.svc.ListCreatedAt(ctx)
}

func (b *ServiceBackend) Insert(ctx context.Context, ownerID snowflake.ID, in RecordInput) (Record, error) {
	return b.svc.Create(ownercontext.WithOwnerID(ctx, ownerID), customerdomain.CreateCustomerRequest{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Notes: in.Notes,
	})
}

func (b *ServiceBackend) Update(ctx context.Context, id snowflake.ID, in RecordInput) (Record, error) {
	return b.svc.Update(ctx, customerdomain.UpdateCustomerRequest{
		ID:    id.String(),
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Notes: in.Notes,
	})
}

func (b *ServiceBackend) Delete(ctx context.Context, id snowflake.ID) error {
	return b.svc.Delete(ctx, id.String())
}
