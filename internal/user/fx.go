package user

import (
	"github.com/offerdesk/offerdesk/internal/user/repository"
	"github.com/offerdesk/offerdesk/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
