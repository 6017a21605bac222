package metric

import (
	"github.com/verdantio/carbonledger/internal/metric/repository"
	"github.com/verdantio/carbonledger/internal/metric/service"
	"go.uber.org/fx"
)

var Module = fx.Module("metric.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
