package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Changes streams change notifications as server-sent events. Display
// and teacher views re-fetch the student list on every event.
func (h *Handler) Changes(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := h.notifier.Subscribe(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("changed", evt)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
