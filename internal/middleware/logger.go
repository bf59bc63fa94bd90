package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"fileproxy/internal/pkg/response"
)

// RequestLogger logs every request as a key=value line and recovers from
// panics. Panic detail goes to the log only; the client gets the generic
// 500 envelope, never a stack trace.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf(
					"panic method=%s path=%s client_ip=%s error=%q stack=%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.ClientIP(),
					fmt.Sprintf("%v", recovered),
					string(debug.Stack()),
				)
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				}
				c.Abort()
				return
			}

			log.Printf(
				"request method=%s path=%s status=%d client_ip=%s bytes=%d latency=%s",
				c.Request.Method,
				c.Request.URL.Path,
				c.Writer.Status(),
				c.ClientIP(),
				c.Writer.Size(),
				time.Since(start),
			)
		}()

		c.Next()
	}
}
