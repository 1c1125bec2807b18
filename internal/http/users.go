package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UsersController serves the authenticated-user endpoint.
type UsersController struct{}

func NewUsersController() *UsersController {
	return &UsersController{}
}

// Me handles GET /api/me: the current user's projection, or 403 with a
// sign-in prompt for anonymous requests.
func (uc *UsersController) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "Please sign in first"})
		return
	}

	c.JSON(http.StatusOK, projectUser(user))
}
