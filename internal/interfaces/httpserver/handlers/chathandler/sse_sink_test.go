package chathandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/ai-gateway/internal/domain/chat"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

func newTestSink(t *testing.T, ctx context.Context) (*sseSink, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/chat/stream", nil).WithContext(ctx)
	flusher, ok := c.Writer.(http.Flusher)
	require.True(t, ok)
	return newSSESink(c, flusher), rec
}

func TestSSESinkFraming(t *testing.T) {
	sink, rec := newTestSink(t, context.Background())

	require.NoError(t, sink.open())
	require.NoError(t, sink.Send(chat.TokenEvent("Hi", "req-1")))
	require.NoError(t, sink.Send(chat.CompleteEvent("req-1")))

	assert.Equal(t,
		": connected\n\n"+
			"event: token\ndata: {\"type\":\"token\",\"text\":\"Hi\",\"requestId\":\"req-1\"}\n\n"+
			"event: complete\ndata: {\"type\":\"complete\",\"requestId\":\"req-1\"}\n\n",
		rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestSSESinkErrorEvent(t *testing.T) {
	sink, rec := newTestSink(t, context.Background())

	sanitized := platformerrors.Sanitize(platformerrors.NewProviderError(context.Background(), 500, "secret", nil), "req-2")
	require.NoError(t, sink.Send(chat.ErrorEvent(sanitized)))
	assert.Contains(t, rec.Body.String(), "event: error\n")
	assert.Contains(t, rec.Body.String(), `"code":"PROVIDER_ERROR"`)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestSSESinkStopsAfterDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink, rec := newTestSink(t, ctx)
	cancel()

	assert.ErrorIs(t, sink.Send(chat.TokenEvent("late", "req-3")), errClientGone)
	assert.Empty(t, rec.Body.String())
}
