package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/middleware"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
)

// session returns the caller's claims and account, answering 401 itself
// when the request carries none.
func session(c *gin.Context) (*helpers.EnhancedClaims, *models.Account, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, nil, false
	}
	return claims, middleware.Account(claims), true
}

func respondError(c *gin.Context, err error) {
	status := services.StatusCode(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}
