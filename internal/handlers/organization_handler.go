package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
)

func ListOrganizations(ors *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := ors.ListOrganizations(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(orgs, len(orgs)))
	}
}

// readDocument pulls the single PDF under "file"; it answers the request
// itself on failure.
func readDocument(c *gin.Context) ([]byte, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("a PDF file is required"))
		return nil, false
	}
	data, err := helpers.ReadPDF(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
		return nil, false
	}
	return data, true
}

func SubmitAnnualReport(ors *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		var report models.AnnualReport
		if err := c.ShouldBind(&report); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		doc, ok := readDocument(c)
		if !ok {
			return
		}

		created, err := ors.SubmitAnnualReport(c.Request.Context(), c.Param("org_id"), &report, doc, account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Annual report submitted"))
	}
}

func SubmitRecognition(ors *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		var rec models.Recognition
		if err := c.ShouldBind(&rec); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		doc, ok := readDocument(c)
		if !ok {
			return
		}

		created, err := ors.SubmitRecognition(c.Request.Context(), c.Param("org_id"), &rec, doc, account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Recognition application submitted"))
	}
}

func ListAnnualReports(ors *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		rows, err := ors.ListAnnualReports(c.Request.Context(), c.Param("org_id"), account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(rows, len(rows)))
	}
}

func ListRecognitions(ors *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, account, ok := session(c)
		if !ok {
			return
		}
		rows, err := ors.ListRecognitions(c.Request.Context(), c.Param("org_id"), account, claims.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(rows, len(rows)))
	}
}
