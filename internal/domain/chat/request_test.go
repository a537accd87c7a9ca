package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

func TestRequestValidate(t *testing.T) {
	limits := Limits{MaxMessageLength: 10, MaxHistory: 2}
	ok := provider.ChatMessage{Role: provider.RoleUser, Content: "hey"}

	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"empty message", Request{Message: ""}, "message"},
		{"blank message", Request{Message: "  \n\t"}, "message"},
		{"message too long", Request{Message: strings.Repeat("é", 11)}, "message"},
		{"history too long", Request{Message: "hi", History: []provider.ChatMessage{ok, ok, ok}}, "history"},
		{"unknown role", Request{Message: "hi", History: []provider.ChatMessage{ok, {Role: "tool", Content: "x"}}}, "history[1].role"},
		{"empty content", Request{Message: "hi", History: []provider.ChatMessage{{Role: provider.RoleAssistant}}}, "history[0].content"},
		{"content too long", Request{Message: "hi", History: []provider.ChatMessage{{Role: provider.RoleUser, Content: strings.Repeat("x", 11)}}}, "history[0].content"},
		{"valid", Request{Message: strings.Repeat("é", 10), History: []provider.ChatMessage{ok, ok}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(context.Background(), limits)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var platformErr *platformerrors.PlatformError
			require.ErrorAs(t, err, &platformErr)
			assert.Equal(t, tt.field, platformErr.Field)
			assert.Equal(t, platformerrors.CodeInvalidRequest, platformerrors.Classify(err))
		})
	}
}

func TestEmptyMessageNeverReachesProvider(t *testing.T) {
	client := &scriptedClient{}
	f := newFixture(openAIOnly(), client)
	svc := newTestService(f, DefaultLimits())

	err := svc.Validate(context.Background(), Request{Message: ""})
	assert.Equal(t, platformerrors.CodeInvalidRequest, platformerrors.Classify(err))
	assert.Equal(t, int32(0), client.calls.Load())
	assert.Empty(t, f.built)
}
