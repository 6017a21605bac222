package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/verdantio/carbonledger/internal/clock"
	"github.com/verdantio/carbonledger/internal/config"
	"github.com/verdantio/carbonledger/internal/migration"
	"github.com/verdantio/carbonledger/internal/observability"
	"github.com/verdantio/carbonledger/internal/server"
	"github.com/verdantio/carbonledger/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
