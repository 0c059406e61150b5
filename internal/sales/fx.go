package sales

import (
	"github.com/smallbiznis/salesops/internal/sales/repository"
	"github.com/smallbiznis/salesops/internal/sales/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sales.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
