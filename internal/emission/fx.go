package emission

import (
	"github.com/verdantio/carbonledger/internal/emission/repository"
	"github.com/verdantio/carbonledger/internal/emission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("emission.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
