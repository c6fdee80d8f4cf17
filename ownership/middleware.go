package ownership

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Require gates a route group behind chain resolution. params name the path
// parameters carrying the id for each chain level, outer-to-inner. The
// requesting user id must already be set in the context by the auth layer.
func Require(chain *Chain, params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.AbortWithStatusJSON(401, gin.H{"message": "Unauthorized"})
			return
		}

		ids := make([]string, len(params))
		for i, p := range params {
			ids[i] = c.Param(p)
		}

		err := chain.Resolve(c.Request.Context(), userID, ids...)
		if err != nil {
			if IsNotFound(err) {
				c.AbortWithStatusJSON(404, gin.H{"message": "Not found"})
				return
			}
			logrus.WithError(err).Error("ownership chain resolution failed")
			c.AbortWithStatusJSON(500, gin.H{"message": "Internal server error"})
			return
		}

		c.Next()
	}
}
