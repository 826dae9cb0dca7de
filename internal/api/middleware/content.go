package middleware

import (
	"mime"
	"net/http"

	"github.com/GriffinCanCode/lcmp/internal/shared/types"
	"github.com/gin-gonic/gin"
)

const jsonMediaType = "application/json"

// RequireJSON rejects with 415 the requests whose body is not JSON. POST and
// PUT must declare application/json; GET is only rejected when it declares
// another media type.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Content-Type")

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut:
		case http.MethodGet:
			if header == "" {
				c.Next()
				return
			}
		default:
			c.Next()
			return
		}

		if mediaType, _, err := mime.ParseMediaType(header); err != nil || mediaType != jsonMediaType {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, types.ProblemDetails{
				Status: http.StatusUnsupportedMediaType,
				Detail: "invalid content type: " + header,
			})
			return
		}

		c.Next()
	}
}
