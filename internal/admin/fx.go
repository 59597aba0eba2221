package admin

import (
	"github.com/offerdesk/offerdesk/internal/admin/service"
	"go.uber.org/fx"
)

var Module = fx.Module("admin.service",
	fx.Provide(service.New),
)
