package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDKey = "request_id"

// RequestID tags every request with an identifier that is echoed in the
// response and carried into the logs for that request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Recovery catches panics at the top of the request, logs the full
// detail, and answers with a generic message. With debug enabled the
// detail is included in the response as well.
func Recovery(logger *logrus.Logger, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString(requestIDKey),
					"path":       c.Request.URL.Path,
					"panic":      fmt.Sprintf("%v", r),
				}).Error("Recovered from panic in request handler")

				body := gin.H{"error": "Internal server error"}
				if debug {
					body["detail"] = fmt.Sprintf("%v", r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
