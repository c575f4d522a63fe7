package controllers

import (
	"net/http"

	"github.com/FlowDomain/NutriLog/services"
	"github.com/gin-gonic/gin"
)

// DeviceController is wired with a nil Push when SNS is not configured.
type DeviceController struct {
	Push *services.PushService
}

func NewDeviceController(ps *services.PushService) *DeviceController {
	return &DeviceController{Push: ps}
}

func (dc *DeviceController) Register(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if dc.Push == nil {
		respondError(c, services.ErrUnavailable)
		return
	}

	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dev, err := dc.Push.RegisterDevice(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoint_arn": dev.EndpointARN})
}

type toggleReq struct {
	Enabled bool `json:"enabled"`
}

// POST /user/notifications/toggle
func (dc *DeviceController) ToggleNotifications(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if dc.Push == nil {
		respondError(c, services.ErrUnavailable)
		return
	}

	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := dc.Push.SetEnabled(c.Request.Context(), uid, req.Enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": req.Enabled,
	})
}
