package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

const CorrelationIdHeader = "X-Correlation-Id"

// CorrelationIdMiddleware propagates the caller's correlation id, or
// mints one, so log lines across a request can be tied together.
func CorrelationIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get(CorrelationIdHeader)
		if correlationId == "" {
			correlationId = uuid.NewString()
		}

		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(CorrelationIdHeader, correlationId)
		c.Next()
	}
}
