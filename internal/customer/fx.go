package customer

import (
	"github.com/Henok-Haile/crm-dashboard/internal/customer/repository"
	"github.com/Henok-Haile/crm-dashboard/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
