package product

import (
	"github.com/offerdesk/offerdesk/internal/product/repository"
	"github.com/offerdesk/offerdesk/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
