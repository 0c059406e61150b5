package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesops/internal/authorization"
	"github.com/smallbiznis/salesops/internal/clock"
	"github.com/smallbiznis/salesops/internal/commission"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/smallbiznis/salesops/internal/migration"
	"github.com/smallbiznis/salesops/internal/observability"
	"github.com/smallbiznis/salesops/internal/ratelimit"
	"github.com/smallbiznis/salesops/internal/reportmetrics"
	"github.com/smallbiznis/salesops/internal/sales"
	"github.com/smallbiznis/salesops/internal/server"
	"github.com/smallbiznis/salesops/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,
		authorization.Module,

		// Domains
		sales.Module,
		commission.Module,
		reportmetrics.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
