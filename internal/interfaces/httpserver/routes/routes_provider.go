package routes

import (
	"github.com/google/wire"

	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/handlers/generationhandler"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/handlers/providerhandler"
)

var RouteProvider = wire.NewSet(
	// Handlers
	providerhandler.NewProviderHandler,
	chathandler.NewChatHandler,
	generationhandler.NewGenerationHandler,

	// Routes
	NewGatewayRoute,
)
