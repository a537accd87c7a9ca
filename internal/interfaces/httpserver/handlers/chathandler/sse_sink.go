package chathandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/ai-gateway/internal/domain/chat"
)

var errClientGone = errors.New("client disconnected")

// sseSink frames stream events as text/event-stream messages.
type sseSink struct {
	c       *gin.Context
	flusher http.Flusher
}

func newSSESink(c *gin.Context, flusher http.Flusher) *sseSink {
	return &sseSink{c: c, flusher: flusher}
}

// open writes the status, headers and a comment line so the caller sees the
// stream before the first token.
func (s *sseSink) open() error {
	s.c.Status(http.StatusOK)
	if _, err := fmt.Fprint(s.c.Writer, ": connected\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseSink) Send(event chat.StreamEvent) error {
	if err := s.c.Request.Context().Err(); err != nil {
		return errClientGone
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.c.Writer, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
