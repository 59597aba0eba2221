package auth

import (
	"github.com/offerdesk/offerdesk/internal/auth/repository"
	"github.com/offerdesk/offerdesk/internal/auth/service"
	"github.com/offerdesk/offerdesk/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(token.NewManager),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
