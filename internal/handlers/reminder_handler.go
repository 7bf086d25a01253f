package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
)

func ReminderStatus(rs *services.ReminderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := session(c)
		if !ok {
			return
		}
		status, err := rs.Status(c.Request.Context(), claims.AccountID, claims.SessionKey())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(status, ""))
	}
}

func AcknowledgeReminders(rs *services.ReminderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := session(c)
		if !ok {
			return
		}
		status, err := rs.Acknowledge(c.Request.Context(), claims.AccountID, claims.SessionKey())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(status, "Reminders acknowledged"))
	}
}

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"status": "ok"}, ""))
	}
}
