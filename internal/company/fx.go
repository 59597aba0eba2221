package company

import (
	"github.com/offerdesk/offerdesk/internal/company/repository"
	"github.com/offerdesk/offerdesk/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
