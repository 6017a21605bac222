package analytics

import (
	"github.com/verdantio/carbonledger/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.service",
	fx.Provide(service.New),
)
