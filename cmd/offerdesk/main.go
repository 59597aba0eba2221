package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/internal/clock"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/internal/logger"
	"github.com/offerdesk/offerdesk/internal/migration"
	"github.com/offerdesk/offerdesk/internal/server"
	"github.com/offerdesk/offerdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
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
