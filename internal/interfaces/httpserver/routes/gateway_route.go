package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/handlers/generationhandler"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/handlers/providerhandler"
)

type GatewayRoute struct {
	providerHandler   *providerhandler.ProviderHandler
	chatHandler       *chathandler.ChatHandler
	generationHandler *generationhandler.GenerationHandler
}

func NewGatewayRoute(
	providerHandler *providerhandler.ProviderHandler,
	chatHandler *chathandler.ChatHandler,
	generationHandler *generationhandler.GenerationHandler,
) *GatewayRoute {
	return &GatewayRoute{
		providerHandler:   providerHandler,
		chatHandler:       chatHandler,
		generationHandler: generationHandler,
	}
}

// RegisterRouter registers the gateway endpoints.
func (r *GatewayRoute) RegisterRouter(router gin.IRouter) {
	router.GET("/providers/:capability", r.providerHandler.List)
	router.POST("/chat/stream", r.chatHandler.Stream)
	router.POST("/image", r.generationHandler.Image)
	router.POST("/speech", r.generationHandler.Speech)
}
