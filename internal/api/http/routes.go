package http

import (
	"github.com/gin-gonic/gin"
)

// BasePath is the root of the device application API.
const BasePath = "/dev_app/v1"

// RegisterRoutes mounts the device application API on r. extra runs before
// the handlers of the API group only.
func RegisterRoutes(r gin.IRouter, h *Handlers, extra ...gin.HandlerFunc) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group(BasePath, extra...)
	{
		api.GET("/app_list", h.AppList)

		api.POST("/app_contexts", h.CreateContext)
		api.GET("/app_contexts", h.ListContexts)
		api.GET("/app_contexts/:"+ContextIDParam, h.GetContext)
		api.PUT("/app_contexts/:"+ContextIDParam, h.UpdateContext)
		api.DELETE("/app_contexts/:"+ContextIDParam, h.DeleteContext)
	}
}
