package chathandler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/domain/chat"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/requests"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
	"github.com/janhq/ai-gateway/internal/utils/requestctx"
)

type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

func NewChatHandler(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{service: service, log: log}
}

// Stream answers with a 400 JSON body when the request is invalid, which
// includes an unknown provider name. Anything after validation, including
// resolving a known but unconfigured provider, is reported inside the event
// stream.
func (h *ChatHandler) Stream(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var body requests.ChatStreamRequest
	if err := requests.BindJSON(reqCtx, &body); err != nil {
		platformerrors.WriteError(reqCtx, err, h.log)
		return
	}
	req := body.ToDomain()
	if err := h.service.Validate(ctx, req); err != nil {
		platformerrors.WriteError(reqCtx, err, h.log)
		return
	}

	flusher, ok := middlewares.PrepareSSE(reqCtx)
	if !ok {
		platformerrors.WriteError(reqCtx, platformerrors.NewError(ctx, platformerrors.LayerRoute, platformerrors.ErrorTypeInternal,
			"response writer does not support flushing", nil, "c2a9e7f4-1b3d-4c86-9e05-7d4f8a2b6c13"), h.log)
		return
	}

	sink := newSSESink(reqCtx, flusher)
	if err := sink.open(); err != nil {
		h.log.Warn().Err(err).Str("request_id", requestctx.ID(ctx)).Msg("open event stream")
		return
	}

	session := h.service.NewSession(requestctx.ID(ctx), req)
	state := session.Run(ctx, sink)
	if providerType := session.ProviderType(); providerType != "" {
		reqCtx.Set(middlewares.ProviderKey, string(providerType))
	}

	h.log.Debug().
		Str("request_id", requestctx.ID(ctx)).
		Str("session_id", session.ID).
		Str("state", string(state)).
		Msg("chat stream closed")
}
