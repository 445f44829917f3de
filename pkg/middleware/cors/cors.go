package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type originPolicy map[string]struct{}

func (p originPolicy) permits(origin string) bool {
	if len(p) == 0 {
		return true
	}
	_, ok := p[strings.TrimRight(origin, "/")]
	return ok
}

// New returns the CORS middleware for browser clients of the API. An empty
// origin list allows every origin.
func New(origins []string) gin.HandlerFunc {
	policy := make(originPolicy, len(origins))
	for _, origin := range origins {
		policy[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		header := c.Writer.Header()
		origin := c.GetHeader("Origin")

		switch {
		case origin != "" && policy.permits(origin):
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
		case origin == "" && len(policy) == 0:
			header.Set("Access-Control-Allow-Origin", "*")
		}
		header.Set("Vary", "Origin")
		header.Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, X-Request-ID")
			header.Set("Access-Control-Max-Age", "600")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
