package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// AuditLogger records every write against resource, keyed by the :id path
// parameter when the route has one.
func AuditLogger(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := logrus.Fields{
			"resource": resource,
			"action":   c.Request.Method,
			"id":       c.Param("id"),
			"status":   c.Writer.Status(),
		}
		if c.Writer.Status() < 300 {
			utils.InfoLogger.WithFields(fields).Infof("%s write applied", resource)
		} else {
			utils.ErrorLogger.WithFields(fields).Warnf("%s write rejected", resource)
		}
	}
}
