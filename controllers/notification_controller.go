package controllers

import (
	"net/http"
	"strconv"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/services"
	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Bus *services.AlertBus
}

func NewAlertController(bus *services.AlertBus) *AlertController {
	return &AlertController{Bus: bus}
}

// GET /user/alerts?limit=
func (h *AlertController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	alerts, err := h.Bus.List(c.Request.Context(), uid, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// POST /user/alerts/test sends an info alert through every channel.
func (h *AlertController) SendTest(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var body struct {
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.Message == "" {
		body.Message = "Test notification"
	}

	alert := &models.Alert{UserID: uid, Type: models.AlertInfo, Message: body.Message}
	if err := h.Bus.Emit(c.Request.Context(), alert); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}
