package commission

import (
	"github.com/smallbiznis/salesops/internal/commission/catalog"
	"github.com/smallbiznis/salesops/internal/commission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commission.service",
	fx.Provide(catalog.NewHolder),
	fx.Provide(service.NewService),
)
