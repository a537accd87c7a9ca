package generationhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/janhq/ai-gateway/internal/domain/generation"
	"github.com/janhq/ai-gateway/internal/infrastructure/observability"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/requests"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/responses"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
	"github.com/janhq/ai-gateway/internal/utils/requestctx"
)

// GenerationHandler serves the single-shot image and speech endpoints.
type GenerationHandler struct {
	images *generation.ImageService
	speech *generation.SpeechService
	log    zerolog.Logger
}

func NewGenerationHandler(images *generation.ImageService, speech *generation.SpeechService, log zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{images: images, speech: speech, log: log}
}

func (h *GenerationHandler) Image(reqCtx *gin.Context) {
	var body requests.ImageRequest
	if err := requests.BindJSON(reqCtx, &body); err != nil {
		platformerrors.WriteError(reqCtx, err, h.log)
		return
	}

	ctx, span := observability.StartSpan(reqCtx.Request.Context(), "gateway.image.generate")
	defer span.End()

	result, err := h.images.Generate(ctx, body.ToDomain())
	if err != nil {
		observability.RecordError(ctx, err)
		platformerrors.WriteError(reqCtx, err, h.log)
		return
	}
	observability.AddSpanAttributes(ctx, attribute.String("gateway.provider", string(result.Provider)))
	reqCtx.Set(middlewares.ProviderKey, string(result.Provider))
	reqCtx.JSON(http.StatusOK, responses.NewImageResponse(result, requestctx.ID(ctx)))
}

func (h *GenerationHandler) Speech(reqCtx *gin.Context) {
	var body requests.SpeechRequest
	if err := requests.BindJSON(reqCtx, &body); err != nil {
		platformerrors.WriteError(reqCtx, err, h.log)
		return
	}

	ctx, span := observability.StartSpan(reqCtx.Request.Context(), "gateway.speech.synthesize")
	defer span.End()

	result, err := h.speech.Synthesize(ctx, body.ToDomain())
	if err != nil {
		observability.RecordError(ctx, err)
		platformerrors.WriteError(reqCtx, err, h.log)
		return
	}
	observability.AddSpanAttributes(ctx,
		attribute.String("gateway.provider", string(result.Provider)),
		attribute.Bool("gateway.duration_estimated", result.DurationEstimated),
	)
	reqCtx.Set(middlewares.ProviderKey, string(result.Provider))
	reqCtx.JSON(http.StatusOK, responses.NewSpeechResponse(result, requestctx.ID(ctx)))
}
