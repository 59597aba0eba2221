package providers

import (
	"github.com/offerdesk/offerdesk/internal/providers/email"
	"github.com/offerdesk/offerdesk/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
