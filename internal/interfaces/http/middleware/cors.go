package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/turtacn/axiomgfx-dili/internal/config"
)

// ExposedHeaders are readable by browser callers.
var ExposedHeaders = []string{
	HeaderRequestID,
	"Content-Disposition",
	"Retry-After",
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
}

// CORS applies the API-wide cross-origin policy.  Paths in skip bypass it
// because their handlers answer CORS themselves.
func CORS(cfg config.CORSConfig, skip ...string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:              cfg.AllowMethods,
		AllowHeaders:              cfg.AllowHeaders,
		ExposeHeaders:             ExposedHeaders,
		MaxAge:                    cfg.MaxAge,
		OptionsResponseStatusCode: http.StatusOK,
	}
	if allowsAny(cfg.AllowOrigins) {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowOrigins
	}
	inner := cors.New(cc)

	skipSet := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipSet[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skipSet[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		inner(c)
	}
}

func allowsAny(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
