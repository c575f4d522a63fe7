package controllers

import (
	"net/http"

	"github.com/FlowDomain/NutriLog/services"
	"github.com/gin-gonic/gin"
)

type DailyLogController struct {
	Svc *services.DailyLogService
}

func NewDailyLogController(svc *services.DailyLogService) *DailyLogController {
	return &DailyLogController{Svc: svc}
}

// GET /daily-logs?startDate=&endDate=
func (h *DailyLogController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	start, ok := optionalDate(c, "startDate")
	if !ok {
		return
	}
	end, ok := optionalDate(c, "endDate")
	if !ok {
		return
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be on/after startDate"})
		return
	}

	logs, err := h.Svc.List(c.Request.Context(), uid, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
