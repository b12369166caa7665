package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Bill payloads are small; receipt render payloads carry every cart line.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodePayloadTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		// Bodies without a Content-Length are cut off while being read
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
