package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"

	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
)

// corsMethods are the only methods browsers may use cross-origin.
var corsMethods = []string{http.MethodGet, http.MethodPost}

// CORS applies the configured cross-origin policy. Every OPTIONS request
// stops here with 204; a preflight for a disallowed origin, method or
// header gets no Access-Control-Allow-* headers, so the browser refuses it.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	policy := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: corsMethods,
		AllowedHeaders: cfg.AllowHeaders,
		MaxAge:         int(cfg.MaxAge.Seconds()),
		// gin decides what happens after the headers are written.
		OptionsPassthrough: true,
	})

	return func(c *gin.Context) {
		policy.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
			ServeHTTP(c.Writer, c.Request)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
