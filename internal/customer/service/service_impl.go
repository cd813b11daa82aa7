package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/clock"
	"github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/observability/metrics"
	"github.com/Henok-Haile/crm-dashboard/internal/ownercontext"
	"github.com/Henok-Haile/crm-dashboard/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var listLimits = pagination.Limits{Default: 5, Max: 100}

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("customer.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    clk,
		metrics:  p.Metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (customer domain.Customer, err error) {
	defer func() { s.metrics.RecordCustomerMutation(ctx, "create", err) }()

	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrInvalidOwner
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := s.validate.Struct(req); err != nil {
		return domain.Customer{}, toValidationError(err)
	}

	now := s.clock.Now()
	customer = domain.Customer{
		ID:        s.genID.Generate(),
		OwnerID:   ownerID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		s.log.Error("insert customer failed", zap.Error(err))
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.ListCustomerResponse{}, domain.ErrInvalidOwner
	}

	sort, ok := domain.ParseSort(string(req.Sort))
	if !ok {
		return domain.ListCustomerResponse{}, domain.ErrInvalidSort
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	limit := listLimits.Normalize(req.Limit)

	filter := domain.ListCustomerFilter{
		Search:      strings.TrimSpace(req.Search),
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}

	count, err := s.repo.Count(ctx, s.db, ownerID, filter)
	if err != nil {
		return domain.ListCustomerResponse{}, fmt.Errorf("count customers: %w", err)
	}

	items, err := s.repo.List(ctx, s.db, ownerID, filter, offset, limit, sort)
	if err != nil {
		return domain.ListCustomerResponse{}, fmt.Errorf("list customers: %w", err)
	}
	s.metrics.RecordListingFetch(ctx, string(sort))

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{Customers: customers, Count: count}, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Customer, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrInvalidOwner
	}

	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (customer domain.Customer, err error) {
	defer func() { s.metrics.RecordCustomerMutation(ctx, "update", err) }()

	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrInvalidOwner
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := s.validate.Struct(req); err != nil {
		return domain.Customer{}, toValidationError(err)
	}

	err = s.repo.Update(ctx, s.db, ownerID, id, domain.UpdateFields{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		UpdatedAt: s.clock.Now(),
	})
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) (err error) {
	defer func() { s.metrics.RecordCustomerMutation(ctx, "delete", err) }()

	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOwner
	}

	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, s.db, ownerID, id)
}

func (s *Service) ListCreatedAt(ctx context.Context) ([]time.Time, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOwner
	}

	stamps, err := s.repo.ListCreatedAt(ctx, s.db, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list created_at: %w", err)
	}
	for i := range stamps {
		stamps[i] = stamps[i].UTC()
	}
	return stamps, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

var fieldSentinels = map[string]error{
	"Name":  domain.ErrInvalidName,
	"Email": domain.ErrInvalidEmail,
	"Phone": domain.ErrInvalidPhone,
	"Notes": domain.ErrInvalidNotes,
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		fields = append(fields, domain.FieldError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: fieldMessage(field, fe),
		})
	}

	sentinel, ok := fieldSentinels[verrs[0].Field()]
	if !ok {
		sentinel = err
	}
	return domain.NewValidationError(sentinel, fields...)
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
