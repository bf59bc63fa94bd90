package stream

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the streaming route at the router root. The proxy
// runs behind its own hostname, so there is no API version prefix; the
// path is the share-link format the dashboard hands out.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/:userId/:fileId", h.Stream)
}
