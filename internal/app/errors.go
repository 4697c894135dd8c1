package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gospec/internal/pkg"
)

// noRouteHandler answers unknown paths with a JSON 404 envelope.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderError(c, http.StatusNotFound)
	}
}

// noMethodHandler answers known paths requested with the wrong method.
func noMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderError(c, http.StatusMethodNotAllowed)
	}
}

// renderError aborts with the JSON error envelope for code.
func renderError(c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, pkg.Response{Code: code, Message: defaultStatusText(code)})
}

// defaultStatusText returns a short lower-case label for common error codes.
func defaultStatusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "not found"
	case http.StatusMethodNotAllowed:
		return "method not allowed"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return "error"
	}
}
