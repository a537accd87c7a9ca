//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/janhq/ai-gateway/internal/domain"
	"github.com/janhq/ai-gateway/internal/infrastructure"
	"github.com/janhq/ai-gateway/internal/interfaces"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
