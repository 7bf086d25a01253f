package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
)

// bindSubmission reads the multipart activity request: activity and
// schedule fields plus exactly one file under "file".
func bindSubmission(c *gin.Context, mode activityform.Mode) (services.Submission, bool) {
	sub := services.Submission{Mode: mode}
	if err := c.ShouldBind(&sub.Activity); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid activity fields: "+err.Error()))
		return sub, false
	}
	if err := c.ShouldBind(&sub.Schedule); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid schedule fields: "+err.Error()))
		return sub, false
	}
	if days := strings.TrimSpace(c.PostForm("recurring_days")); days != "" && days != "null" {
		sub.Schedule.RecurringDays = &days
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["file"]) != 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("exactly one PDF file is required"))
		return sub, false
	}
	data, err := helpers.ReadPDF(form.File["file"][0])
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, helpers.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, models.ErrorResponse(err.Error()))
		return sub, false
	}
	sub.Document = data
	return sub, true
}

// CreateActivity serves both the student request and the admin create
// flows; mode picks the validation rules.
func CreateActivity(as *services.ActivityService, mode activityform.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		sub, ok := bindSubmission(c, mode)
		if !ok {
			return
		}

		created, err := as.CreateActivity(c.Request.Context(), sub, account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Activity request submitted"))
	}
}

func AppealActivity(as *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		activityID := strings.TrimSpace(c.Param("activity_id"))
		if activityID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("activity ID is required"))
			return
		}

		var payload activityform.AppealPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		if payload.ActivityID != "" && payload.ActivityID != activityID {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("activity ID does not match the path"))
			return
		}

		updated, err := as.AppealActivity(c.Request.Context(), activityID, payload, account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Appeal submitted"))
	}
}

func ReviewActivity(as *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		var review models.StaffReview
		if err := c.ShouldBindJSON(&review); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := as.ReviewActivity(c.Request.Context(), c.Param("activity_id"), review, account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Review recorded"))
	}
}

func ActivitySummary(as *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := session(c)
		if !ok {
			return
		}
		var filter models.SummaryFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid filter: "+err.Error()))
			return
		}

		rows, err := as.Summary(c.Request.Context(), filter, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(rows, len(rows)))
	}
}

func AcademicYears(as *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := session(c)
		if !ok {
			return
		}
		years, err := as.AcademicYears(c.Request.Context(), claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(years, len(years)))
	}
}

func IncomingActivities(as *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := session(c)
		if !ok {
			return
		}
		rows, err := as.Incoming(c.Request.Context(), claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(rows, len(rows)))
	}
}

func ActivityHistory(as *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		changes, err := as.History(c.Request.Context(), c.Param("activity_id"), account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(changes, len(changes)))
	}
}

// ActivitiesByAccount lists an account's activities. Staff looking at
// someone else's list get a 404 for unknown accounts.
func ActivitiesByAccount(as *services.ActivityService, accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := session(c)
		if !ok {
			return
		}
		accountID := strings.TrimSpace(c.Param("account_id"))
		if !claims.IsOwner(accountID) && !claims.IsStaff() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}
		if !claims.IsOwner(accountID) {
			if _, err := accounts.GetAccount(c.Request.Context(), accountID, claims.Token); err != nil {
				respondError(c, err)
				return
			}
		}

		rows, err := as.ActivitiesByAccount(c.Request.Context(), accountID, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(rows, len(rows)))
	}
}

func GenerateApprovalSlips(as *services.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		slips, err := as.GenerateApprovalSlips(c.Request.Context(), account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(slips, "Approval slips generated"))
	}
}
