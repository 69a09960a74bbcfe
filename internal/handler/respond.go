package handler

import (
	"net/http"

	"teamtrack/internal/apperrors"
	"teamtrack/internal/middleware"
	"teamtrack/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// currentUser pulls the authenticated user placed in the context by the auth
// middleware. A miss means the route was mounted without it.
func currentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(middleware.UserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}
	user, ok := value.(*model.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user in context"})
		return nil, false
	}
	return user, true
}

// respondError maps a service error onto its stable status and message.
// Upstream causes are logged, never sent to the caller.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindUpstream {
		zap.L().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr))
	}
	c.JSON(appErr.HTTPStatus(), gin.H{"message": appErr.Message})
}
