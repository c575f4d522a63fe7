package controllers

import (
	"net/http"

	"github.com/FlowDomain/NutriLog/services"
	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Svc *services.ProfileService
}

func NewProfileController(svc *services.ProfileService) *ProfileController {
	return &ProfileController{Svc: svc}
}

func (h *ProfileController) GetProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	user, err := h.Svc.Get(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ProfileController) UpdateProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.Svc.Update(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (h *ProfileController) GetRecommendations(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	rec, err := h.Svc.Recommendations(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
