package controllers

import (
	"net/http"
	"time"

	"github.com/FlowDomain/NutriLog/services"
	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Svc *services.AnalyticsService
}

func NewAnalyticsController(svc *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc}
}

// GET /analytics?period=week|month|all&date=YYYY-MM-DD
func (h *AnalyticsController) GetReport(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	day, ok := optionalDate(c, "date")
	if !ok {
		return
	}
	var date *time.Time
	if !day.IsZero() {
		date = &day
	}

	out, err := h.Svc.Report(c.Request.Context(), uid, c.DefaultQuery("period", services.PeriodWeek), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /analytics/email?period=
func (h *AnalyticsController) EmailReport(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Svc.EmailReport(c.Request.Context(), uid, c.DefaultQuery("period", services.PeriodWeek)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "report sent"})
}
