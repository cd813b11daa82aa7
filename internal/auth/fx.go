package auth

import (
	"github.com/Henok-Haile/crm-dashboard/internal/auth/repository"
	"github.com/Henok-Haile/crm-dashboard/internal/auth/service"
	"github.com/Henok-Haile/crm-dashboard/internal/auth/session"
	"go.uber.org/fx"
)

// Module wires accounts, login sessions and the session cookie manager.
var Module = fx.Module("auth",
	fx.Provide(
		repository.New,
		service.New,
		session.NewManager,
	),
)
