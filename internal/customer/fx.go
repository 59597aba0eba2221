package customer

import (
	"github.com/offerdesk/offerdesk/internal/customer/repository"
	"github.com/offerdesk/offerdesk/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
