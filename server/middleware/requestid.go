package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chronoslabs/chronos/logger"
)

// HeaderRequestID is the header carrying the request correlation id.
const HeaderRequestID = "X-Request-Id"

// RequestID tags each request with a correlation id. A caller-supplied
// X-Request-Id is kept; otherwise a fresh UUID is generated. The id is
// stored in the request context under logger.FieldRequestID and echoed
// on the response so log lines and client reports can be matched up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(logger.FieldRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
