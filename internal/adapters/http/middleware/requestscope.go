package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/jsamuelsen/horoscope-service/internal/app/context"
)

// RequestScope attaches a fresh request context so lookups such as the
// profile flag are fetched once per request.
func RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := appctx.New(c.Request.Context())
		c.Request = c.Request.WithContext(appctx.WithContext(c.Request.Context(), rc))
		c.Next()
	}
}
