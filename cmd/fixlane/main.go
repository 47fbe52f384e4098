package main

import (
	"github.com/fixlane/fixlane/internal/clock"
	"github.com/fixlane/fixlane/internal/config"
	"github.com/fixlane/fixlane/internal/dashboard"
	"github.com/fixlane/fixlane/internal/gateway"
	"github.com/fixlane/fixlane/internal/observability"
	"github.com/fixlane/fixlane/internal/server"
	"github.com/fixlane/fixlane/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,

		gateway.Module,
		dashboard.Module,
		server.Module,
	)
	app.Run()
}
