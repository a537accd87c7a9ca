package interfaces

import (
	"github.com/google/wire"

	"github.com/janhq/ai-gateway/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
