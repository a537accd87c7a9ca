package providerhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/responses"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

type ProviderHandler struct {
	directory *provider.Directory
	log       zerolog.Logger
}

func NewProviderHandler(directory *provider.Directory, log zerolog.Logger) *ProviderHandler {
	return &ProviderHandler{directory: directory, log: log}
}

// List reports every provider of the capability and whether it is
// configured. Credential values are never part of the answer.
func (h *ProviderHandler) List(reqCtx *gin.Context) {
	status, err := h.directory.Status(reqCtx.Request.Context(), reqCtx.Param("capability"))
	if err != nil {
		platformerrors.WriteError(reqCtx, err, h.log)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewProviderListResponse(status))
}
