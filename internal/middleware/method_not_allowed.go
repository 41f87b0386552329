package middleware

import (
	"net/http"
	"strings"

	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// MethodNotAllowed is the engine's NoMethod handler. gin fills the Allow
// header itself; when it has not, the header is rebuilt from the route table.
// engine.HandleMethodNotAllowed must be true for gin to call it.
func MethodNotAllowed(engine *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Writer.Header().Get("Allow") == "" {
			if allowed := AllowedMethods(engine.Routes(), c.Request.URL.Path); len(allowed) > 0 {
				c.Header("Allow", strings.Join(allowed, ", "))
			}
		}
		response.AbortError(c, http.StatusMethodNotAllowed,
			apperror.ErrMethodNotAllowed.Code,
			"Method "+c.Request.Method+" Not Allowed")
	}
}

// NotFound is the engine's NoRoute handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.AbortError(c, http.StatusNotFound,
			apperror.ErrRouteNotFound.Code, apperror.ErrRouteNotFound.Message)
	}
}

// AllowedMethods lists, in route table order, the methods registered for a
// pattern matching path.
func AllowedMethods(routes gin.RoutesInfo, path string) []string {
	var allowed []string
	seen := make(map[string]bool)
	for _, r := range routes {
		if seen[r.Method] || !matchPattern(r.Path, path) {
			continue
		}
		seen[r.Method] = true
		allowed = append(allowed, r.Method)
	}
	return allowed
}

// matchPattern matches gin path patterns: ":name" is one segment, "*name"
// is the rest of the path.
func matchPattern(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")

	for i, p := range ps {
		if strings.HasPrefix(p, "*") {
			return true
		}
		if i >= len(xs) {
			return false
		}
		if strings.HasPrefix(p, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if p != xs[i] {
			return false
		}
	}
	return len(ps) == len(xs)
}
