package gateway

import (
	"github.com/fixlane/fixlane/internal/gateway/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("gateway.repository",
	fx.Provide(repository.Provide),
)
