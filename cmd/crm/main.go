package main

import (
	"github.com/Henok-Haile/crm-dashboard/internal/clock"
	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/Henok-Haile/crm-dashboard/internal/migration"
	"github.com/Henok-Haile/crm-dashboard/internal/observability"
	"github.com/Henok-Haile/crm-dashboard/internal/server"
	"github.com/Henok-Haile/crm-dashboard/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		// Schema and RBAC policy must exist before the HTTP server starts.
		migration.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
