package factor

import (
	"github.com/verdantio/carbonledger/internal/factor/repository"
	"github.com/verdantio/carbonledger/internal/factor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("factor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
